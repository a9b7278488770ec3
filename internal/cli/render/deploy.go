package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

var labelStyle = color.New(color.Faint)

// DeployRenderer summarizes a deploy run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints what was deployed or reused
func (r *DeployRenderer) Render(result *usecase.DeployContractsResult) error {
	if len(result.Deployed) == 0 {
		fmt.Fprintln(r.out, FormatWarning("No deploy scripts matched"))
		return nil
	}

	fmt.Fprintln(r.out)
	r.header(result.Network.Name, result.ChainID, result.Deployer)

	for _, deployed := range result.Deployed {
		status := color.New(color.FgGreen).Sprint("deployed")
		if deployed.Reused {
			status = color.New(color.FgYellow).Sprint("reused")
		}
		fmt.Fprintf(r.out, "  %-24s %s  %s\n",
			color.New(color.Bold).Sprint(deployed.Deployment.Name),
			deployed.Deployment.Address,
			status)
		if len(deployed.Deployment.Args) > 0 {
			fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("  args:"), strings.Join(deployed.Deployment.Args, ", "))
		}
	}

	fresh := lo.CountBy(result.Deployed, func(d *usecase.DeployedContract) bool { return !d.Reused })
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d deployed, %d reused", fresh, len(result.Deployed)-fresh)))
	return nil
}

func (r *DeployRenderer) header(network string, chainID uint64, deployer *models.Account) {
	fmt.Fprintf(r.out, "%s %s (chain %d)\n", labelStyle.Sprint("Network: "), network, chainID)
	if deployer != nil {
		fmt.Fprintf(r.out, "%s %s (%s)\n", labelStyle.Sprint("Deployer:"), deployer.Address.Hex(), deployer.Name)
	}
	fmt.Fprintln(r.out)
}

// ProxyRenderer summarizes a proxy deployment
type ProxyRenderer struct {
	out io.Writer
}

// NewProxyRenderer creates a new proxy renderer
func NewProxyRenderer(out io.Writer) *ProxyRenderer {
	return &ProxyRenderer{out: out}
}

// Render prints the proxy and implementation addresses
func (r *ProxyRenderer) Render(result *usecase.DeployProxyResult) error {
	fmt.Fprintln(r.out)
	(&DeployRenderer{out: r.out}).header(result.Network.Name, result.ChainID, result.Deployer)

	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Proxy:         "), color.New(color.FgMagenta, color.Bold).Sprint(result.Proxy.Address))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Implementation:"), result.Implementation.Address)
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Kind:          "), kindLabel(result.Kind))
	if len(result.Companions) > 0 {
		names := lo.Map(result.Companions, func(a *models.Artifact, _ int) string { return a.Name })
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Resolved:      "), strings.Join(names, ", "))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed at %s", result.Proxy.Name, result.Proxy.Address)))
	return nil
}

var (
	_ Renderer[*usecase.DeployContractsResult] = (*DeployRenderer)(nil)
	_ Renderer[*usecase.DeployProxyResult]     = (*ProxyRenderer)(nil)
)
