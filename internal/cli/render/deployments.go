package render

import (
	"fmt"
	"io"
	"regexp"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// Color styles for table format
var (
	networkBg          = color.BgCyan
	networkHeader      = color.New(networkBg, color.FgBlack)
	networkHeaderBold  = color.New(networkBg, color.FgBlack, color.Bold)
	addressStyle       = color.New(color.FgWhite)
	timestampStyle     = color.New(color.Faint)
	countStyle         = color.New(color.FgCyan)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	implPrefixStyle    = color.New(color.Faint)
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)

type TableData [][]string

// DeploymentsRenderer renders deployment lists as tables grouped by network
type DeploymentsRenderer struct {
	out   io.Writer
	color bool
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, color bool) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out:   out,
		color: color,
	}
}

type deploymentSections struct {
	proxies         []*models.Deployment
	implementations []*models.Deployment
	singletons      []*models.Deployment
}

// Render renders the deployment list
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	restore := r.applyColor()
	defer restore()

	byNetwork := lo.GroupBy(result.Deployments, func(d *models.Deployment) string { return d.Network })
	networks := lo.Keys(byNetwork)
	sort.Strings(networks)

	sections := make(map[string]deploymentSections, len(networks))
	var allTables []TableData
	for _, network := range networks {
		s := splitSections(byNetwork[network])
		sections[network] = s
		for _, group := range [][]*models.Deployment{s.proxies, s.implementations, s.singletons} {
			if len(group) > 0 {
				allTables = append(allTables, r.buildDeploymentTable(group, byNetwork[network]))
			}
		}
	}
	widths := calculateTableColumnWidths(allTables)

	for netIdx, network := range networks {
		isLast := netIdx == len(networks)-1
		treePrefix, continuation := "├─", "│ "
		if isLast {
			treePrefix, continuation = "└─", "  "
		}

		chainID := byNetwork[network][0].ChainID
		fmt.Fprintf(r.out, "%s%s%s\n",
			treePrefix,
			networkHeader.Sprintf(" ⛓ %-10s ", network),
			networkHeaderBold.Sprintf("%-20s", fmt.Sprintf("chain %d", chainID)))
		fmt.Fprintln(r.out, continuation)

		s := sections[network]
		displayed := 0
		for _, section := range []struct {
			title string
			deps  []*models.Deployment
		}{
			{"PROXIES", s.proxies},
			{"IMPLEMENTATIONS", s.implementations},
			{"SINGLETONS", s.singletons},
		} {
			if len(section.deps) == 0 {
				continue
			}
			if displayed > 0 {
				fmt.Fprintln(r.out, continuation)
			}
			fmt.Fprintf(r.out, "%s%s\n", continuation, sectionHeaderStyle.Sprint(section.title))
			fmt.Fprint(r.out, renderTableWithWidths(r.buildDeploymentTable(section.deps, byNetwork[network]), widths, continuation))
			fmt.Fprintln(r.out)
			displayed++
		}

		if !isLast {
			fmt.Fprintln(r.out, continuation)
		} else {
			fmt.Fprintln(r.out)
		}
	}

	fmt.Fprintf(r.out, "Total deployments: %d\n", result.Summary.Total)
	return nil
}

func (r *DeploymentsRenderer) applyColor() func() {
	prev := color.NoColor
	color.NoColor = !r.color
	return func() { color.NoColor = prev }
}

// splitSections separates proxies, the implementations they point at, and plain singletons
func splitSections(deployments []*models.Deployment) deploymentSections {
	implementations := make(map[string]bool)
	for _, dep := range deployments {
		if dep.IsProxy() && dep.Implementation != "" {
			implementations[lowerHex(dep.Implementation)] = true
		}
	}

	var s deploymentSections
	for _, dep := range deployments {
		switch {
		case dep.IsProxy():
			s.proxies = append(s.proxies, dep)
		case implementations[lowerHex(dep.Address)]:
			s.implementations = append(s.implementations, dep)
		default:
			s.singletons = append(s.singletons, dep)
		}
	}
	return s
}

// buildDeploymentTable creates a TableData for a list of deployments
func (r *DeploymentsRenderer) buildDeploymentTable(deployments []*models.Deployment, network []*models.Deployment) TableData {
	tableData := make(TableData, 0, len(deployments))

	sort.Slice(deployments, func(i, j int) bool { return deployments[i].Name < deployments[j].Name })

	for _, dep := range deployments {
		tableData = append(tableData, []string{
			coloredName(dep),
			addressStyle.Sprint(dep.Address),
			countStyle.Sprintf("#%d", dep.NumDeployments),
			timestampStyle.Sprint(dep.DeployedAt.Format("2006-01-02 15:04:05")),
		})

		if dep.IsProxy() && dep.Implementation != "" {
			implName := dep.Implementation
			if impl, ok := lo.Find(network, func(d *models.Deployment) bool {
				return !d.IsProxy() && lowerHex(d.Address) == lowerHex(dep.Implementation)
			}); ok {
				implName = impl.Name
			}
			kind := ""
			if dep.ProxyKind != "" {
				kind = " (" + kindLabel(dep.ProxyKind) + ")"
			}
			tableData = append(tableData, []string{
				implPrefixStyle.Sprintf("└─ %s%s", implName, kind),
				"",
				"",
				"",
			})
		}
	}

	return tableData
}

// coloredName returns a colored display name for a deployment
func coloredName(dep *models.Deployment) string {
	if dep.IsProxy() {
		return color.New(color.FgMagenta, color.Bold).Sprint(dep.Name)
	}
	return color.New(color.FgGreen, color.Bold).Sprint(dep.Name)
}

// renderTableWithWidths renders a table with specific column widths
func renderTableWithWidths(tableData TableData, columnWidths []int, continuationPrefix string) string {
	if len(tableData) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	colConfigs := make([]table.ColumnConfig, len(columnWidths))
	for i, width := range columnWidths {
		if i == 0 {
			width += 2 + len([]rune(continuationPrefix))
		}
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
			WidthMax: width,
		}
	}
	t.SetColumnConfigs(colConfigs)

	for _, row := range tableData {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			if i == 0 {
				tableRow[i] = continuationPrefix + cell
			} else {
				tableRow[i] = cell
			}
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

// stripAnsiCodes removes ANSI escape sequences from a string
func stripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// calculateTableColumnWidths calculates column widths shared by several tables
func calculateTableColumnWidths(tables []TableData) []int {
	maxCols := 0
	for _, t := range tables {
		for _, row := range t {
			maxCols = max(maxCols, len(row))
		}
	}

	widths := make([]int, maxCols)
	for _, t := range tables {
		for _, row := range t {
			for colIdx, cell := range row {
				widths[colIdx] = max(widths[colIdx], len([]rune(stripAnsiCodes(cell))))
			}
		}
	}
	return widths
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
