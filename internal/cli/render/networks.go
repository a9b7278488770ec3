package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out   io.Writer
	color bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, color bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:   out,
		color: color,
	}
}

// Render renders the configured networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in spdeploy.toml [networks]")
		return nil
	}

	prev := color.NoColor
	color.NoColor = !r.color
	defer func() { color.NoColor = prev }()

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "RPC", "Mode"})

	for _, network := range result.Networks {
		marker := " "
		name := network.Name
		if network.Active {
			marker = color.New(color.FgGreen).Sprint("●")
			name = color.New(color.Bold).Sprint(name)
		}

		chainID := "?"
		if network.ChainID != 0 {
			chainID = fmt.Sprintf("%d", network.ChainID)
		}

		mode := "live"
		if !network.Live {
			mode = "local"
		}
		if network.AutoMine {
			mode += ", auto-mine"
		}

		t.AppendRow(table.Row{marker, name, chainID, network.RPCURL, mode})
	}

	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
