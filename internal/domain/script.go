package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// RefPrefix marks a step argument that refers to an earlier deployment's address
const RefPrefix = "@"

// DeployScript is an ordered list of contract deployments run as one unit
type DeployScript struct {
	Name  string       `yaml:"name"`
	Tags  []string     `yaml:"tags,omitempty"`
	Steps []DeployStep `yaml:"steps"`
}

// DeployStep deploys one contract. Args are literal values or @Name references.
type DeployStep struct {
	Contract string   `yaml:"contract"`
	Name     string   `yaml:"name,omitempty"`
	Args     []string `yaml:"args,omitempty"`
}

// DeploymentName is the registry name of the step, defaulting to the contract name
func (s DeployStep) DeploymentName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Contract
}

// ParseRef returns the referenced deployment name if arg is an @Name reference
func ParseRef(arg string) (string, bool) {
	if !strings.HasPrefix(arg, RefPrefix) || len(arg) == len(RefPrefix) {
		return "", false
	}
	return strings.TrimPrefix(arg, RefPrefix), true
}

// MatchesTags reports whether the script carries any of the given tags.
// An empty tag list matches every script.
func (s *DeployScript) MatchesTags(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	return lo.Some(s.Tags, tags)
}

// Validate checks that the script is well formed: every step names a
// contract, deployment names are unique and references only point backwards
// within the script or to deployments that exist outside of it.
func (s *DeployScript) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("deploy script has no name")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("deploy script %s has no steps", s.Name)
	}

	declared := make(map[string]int)
	for i, step := range s.Steps {
		if step.Contract == "" {
			return fmt.Errorf("deploy script %s: step %d has no contract", s.Name, i+1)
		}
		name := step.DeploymentName()
		if _, ok := declared[name]; ok {
			return fmt.Errorf("deploy script %s: deployment %s is declared twice", s.Name, name)
		}
		declared[name] = i
	}

	for i, step := range s.Steps {
		for _, arg := range step.Args {
			ref, ok := ParseRef(arg)
			if !ok {
				continue
			}
			if at, inScript := declared[ref]; inScript && at >= i {
				return fmt.Errorf("deploy script %s: %s references %s before it is deployed", s.Name, step.DeploymentName(), ref)
			}
		}
	}
	return nil
}

// DefaultDeployScript deploys the betting token and then the betting contract
// wired to it.
func DefaultDeployScript() *DeployScript {
	return &DeployScript{
		Name: "001_deploy_superposition",
		Tags: []string{"SP_Bet"},
		Steps: []DeployStep{
			{Contract: "SuperBetaToken"},
			{Contract: "SP_Bet", Args: []string{RefPrefix + "SuperBetaToken"}},
		},
	}
}
