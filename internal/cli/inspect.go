package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/nb"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newInspectCmd creates the inspect command: an interactive browser
// over the collection's areas and their neighbours.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse areas and their neighbours interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := areal.ReadFile(args[0])
			if err != nil {
				return err
			}
			rel, err := col.Neighbours()
			if err != nil {
				return err
			}

			model := newAreaListModel(col, rel)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// areaRow is one area's display data, precomputed so View stays cheap.
type areaRow struct {
	Name       string
	Card       int
	Neighbours []string
	Centroid   [2]float64
}

// areaListModel is the bubbletea model for walking the collection.
type areaListModel struct {
	Title  string
	Areas  []areaRow
	Cursor int
	Height int
	Offset int
}

func newAreaListModel(col *areal.Collection, rel *nb.Relation) areaListModel {
	rows := make([]areaRow, col.Len())
	for i := range rows {
		neighbours := rel.Neighbours(i)
		names := make([]string, len(neighbours))
		for j, n := range neighbours {
			names[j] = col.Name(n)
		}
		c := col.Centroid(i)
		rows[i] = areaRow{
			Name:       col.Name(i),
			Card:       len(neighbours),
			Neighbours: names,
			Centroid:   [2]float64{c[0], c[1]},
		}
	}
	return areaListModel{
		Title:  fmt.Sprintf("%d areas, %d links", col.Len(), len(rel.Pairs())),
		Areas:  rows,
		Height: 15,
	}
}

func (m areaListModel) Init() tea.Cmd {
	return nil
}

func (m areaListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Areas)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g":
			m.Cursor = 0
			m.Offset = 0
		case "G":
			m.Cursor = len(m.Areas) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m areaListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Neighbourhood Structure"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Areas) {
		end = len(m.Areas)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		a := m.Areas[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		neighbours := strings.Join(a.Neighbours, ", ")
		if neighbours == "" {
			neighbours = "—"
		}

		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i+1),
			a.Name,
			fmt.Sprintf("%d", a.Card),
			neighbours,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Area", "Card", "Neighbours").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Areas) {
				return lipgloss.NewStyle()
			}
			if actualIdx == m.Cursor {
				return listSelectedStyle
			}
			if m.Areas[actualIdx].Card == 0 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	a := m.Areas[m.Cursor]
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  centroid (%.4f, %.4f)   [%d/%d]",
		a.Centroid[0], a.Centroid[1], m.Cursor+1, len(m.Areas))))

	return b.String()
}
