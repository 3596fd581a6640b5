// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hubblenetwork/hubble-sdk/orbit"
)

var orbitFlags struct {
	satellite     string
	epoch         int64
	meanMotion    float64
	meanMotionDot float64
	raan          float64
	raanDot       float64
	argPerigee    float64
	argPerigeeDot float64
	inclination   float64
	eccentricity  float64
	lat           float64
	lon           float64
}

var orbitCmd = &cobra.Command{
	Use:   "orbit",
	Short: "Predict and watch satellite passes",
}

var orbitWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live countdown to the next satellite pass over a ground point",
	RunE: func(cmd *cobra.Command, args []string) error {
		el := &orbit.Elements{
			Epoch:          orbitFlags.epoch,
			MeanMotion:     orbitFlags.meanMotion,
			MeanMotionDot:  orbitFlags.meanMotionDot,
			RAAN:           orbitFlags.raan,
			RAANDot:        orbitFlags.raanDot,
			ArgPerigee:     orbitFlags.argPerigee,
			ArgPerigeeDot:  orbitFlags.argPerigeeDot,
			InclinationDeg: orbitFlags.inclination,
			Eccentricity:   orbitFlags.eccentricity,
		}
		if orbitFlags.satellite != "" {
			configured, found, err := cfg.Orbit.ElementsFor(orbitFlags.satellite)
			if err != nil {
				return fmt.Errorf("decoding orbit.elements.%s: %w", orbitFlags.satellite, err)
			}
			if !found {
				return fmt.Errorf("no orbit.elements entry named %q", orbitFlags.satellite)
			}
			el = configured
		}
		point := orbit.Point{LatDeg: orbitFlags.lat, LonDeg: orbitFlags.lon}

		p := tea.NewProgram(newOrbitWatchModel(el, point))
		_, err := p.Run()
		return err
	},
}

func init() {
	orbitWatchCmd.Flags().StringVar(&orbitFlags.satellite, "satellite", "", "name of an orbit.elements.<name> entry in the config file, overriding the flags below")
	orbitWatchCmd.Flags().Int64Var(&orbitFlags.epoch, "epoch", time.Now().Unix(), "orbital elements epoch, Unix seconds")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.meanMotion, "mean-motion", 0.0011671, "mean motion n0, rad/s")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.meanMotionDot, "mean-motion-dot", 0, "mean motion secular rate, rad/s^2")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.raan, "raan", 0, "RAAN at epoch, rad")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.raanDot, "raan-dot", 0, "RAAN secular rate, rad/s")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.argPerigee, "arg-perigee", 0, "argument of perigee at epoch, rad")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.argPerigeeDot, "arg-perigee-dot", 0, "argument of perigee secular rate, rad/s")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.inclination, "inclination", 97.5, "inclination, degrees")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.eccentricity, "eccentricity", 0.001, "eccentricity")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.lat, "lat", 0, "ground point latitude, degrees")
	orbitWatchCmd.Flags().Float64Var(&orbitFlags.lon, "lon", 0, "ground point longitude, degrees")

	orbitCmd.AddCommand(orbitWatchCmd)
	rootCmd.AddCommand(orbitCmd)
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// orbitWatchModel is a bubbletea model that re-predicts the next pass
// whenever the previous one elapses and renders a live countdown.
type orbitWatchModel struct {
	el    *orbit.Elements
	point orbit.Point

	pass    orbit.Pass
	err     error
	spinner spinner.Model
}

func newOrbitWatchModel(el *orbit.Elements, point orbit.Point) orbitWatchModel {
	m := orbitWatchModel{el: el, point: point, spinner: spinner.New()}
	m.spinner.Spinner = spinner.Dot
	m.pass, m.err = orbit.NextPass(el, time.Now().Unix(), point)
	return m
}

func (m orbitWatchModel) Init() tea.Cmd { return tea.Batch(tick(), m.spinner.Tick) }

func (m orbitWatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		now := time.Time(msg).Unix()
		if m.err != nil || now >= m.pass.Time {
			m.pass, m.err = orbit.NextPass(m.el, now, m.point)
		}
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func (m orbitWatchModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("%s\n\n%v\n\n%s\n", titleStyle.Render("hubble orbit watch"), m.err, labelStyle.Render("press q to quit"))
	}

	remaining := time.Until(time.Unix(m.pass.Time, 0)).Round(time.Second)
	direction := "descending"
	if m.pass.Ascending {
		direction = "ascending"
	}

	return fmt.Sprintf(
		"%s %s\n\n%s %v\n%s %.4f, %.4f\n%s %s\n\n%s\n",
		m.spinner.View(), titleStyle.Render("hubble orbit watch"),
		labelStyle.Render("next pass in:"), remaining,
		labelStyle.Render("longitude / target:"), m.pass.LonDeg, m.point.LonDeg,
		labelStyle.Render("direction:"), direction,
		labelStyle.Render("press q to quit"),
	)
}
