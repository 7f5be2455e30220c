package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/client"
	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/navigation"
	"github.com/lysokunvoath/grex/internal/validation"
	"github.com/lysokunvoath/grex/internal/viewmodel"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var addActivityCmd = &cobra.Command{
	Use:     "add-activity <group-id>",
	Short:   "Schedule an activity for a group",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := openGroup(cmd, args[0])
		if err != nil {
			return err
		}
		if err := detail.OpenAddActivity(); err != nil {
			return errors.New("only members can add activities")
		}
		p, ok := app.Page().(*client.AddActivityPage)
		if !ok {
			return errNotSignedIn
		}

		subject, _ := cmd.Flags().GetString("subject")
		date, _ := cmd.Flags().GetString("date")
		clock, _ := cmd.Flags().GetString("time")
		description, _ := cmd.Flags().GetString("description")
		if subject == "" {
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Subject").Value(&subject),
					huh.NewInput().Title("Date").Placeholder(validation.DateLayout).Value(&date),
					huh.NewInput().Title("Time").Placeholder(validation.ClockLayout).Value(&clock),
					huh.NewText().Title("Description").Value(&description),
				),
			).Run()
			if err != nil {
				return err
			}
		}

		p.SetSubject(subject)
		p.SetDate(date)
		p.SetTime(clock)
		p.SetDescription(description)
		fmt.Println(mutedStyle.Render("Adding to " + p.GroupName()))
		return report(p.Submit(cmd.Context()))
	},
}

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Short:   "Show a week of activities",
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := goTo[*client.CalendarPage](navigation.Calendar)
		if err != nil {
			return err
		}
		weeks, _ := cmd.Flags().GetInt("week")
		for ; weeks > 0; weeks-- {
			p.NextWeek()
		}
		for ; weeks < 0; weeks++ {
			p.PrevWeek()
		}
		hidden, _ := cmd.Flags().GetStringSlice("hide")
		for _, raw := range hidden {
			id, err := parseGroupID(raw)
			if err != nil {
				return err
			}
			if p.IsSelected(id) {
				p.ToggleGroup(id)
			}
		}

		start := p.WeekStart()
		fmt.Println(titleStyle.Render("Week of " + start.Format("Mon 02 Jan 2006")))
		groups := app.Groups()
		grid := p.Grid()
		for day, date := range p.Days() {
			fmt.Println(headerStyle.Render(date.Format("Monday 02 Jan")))
			empty := true
			for hour := 0; hour < viewmodel.HoursPerDay; hour++ {
				for _, e := range grid[viewmodel.Cell{Day: day, Hour: hour}] {
					empty = false
					printMeetup(e.Meetup, viewmodel.GroupName(groups, e.Meetup.GroupID))
				}
			}
			if empty {
				fmt.Println(mutedStyle.Render("  nothing scheduled"))
			}
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:     "watch [group-id...]",
	Short:   "Stream live changes to your groups until interrupted",
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		var ids []uuid.UUID
		for _, raw := range args {
			id, err := parseGroupID(raw)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			for _, g := range viewmodel.RelevantGroups(app.Groups(), app.UserID()) {
				ids = append(ids, g.ID)
			}
		}
		if len(ids) == 0 {
			fmt.Println(infoStyle.Render("You are not in any groups yet."))
			return nil
		}

		fmt.Println(infoStyle.Render(fmt.Sprintf("Watching %d group(s). Press Ctrl-C to stop.", len(ids))))
		groups := app.Groups()
		return gw.Watch(cmd.Context(), ids, func(ev gateway.Event) {
			name := viewmodel.GroupName(groups, ev.GroupID)
			kind := strings.ReplaceAll(ev.Kind, "_", " ")
			fmt.Printf("%s %s %s\n",
				mutedStyle.Render(time.Now().Format(time.Kitchen)),
				headerStyle.Render(name),
				kind)
		})
	},
}

func init() {
	addActivityCmd.Flags().String("subject", "", "Activity subject (prompted when empty)")
	addActivityCmd.Flags().String("date", "", "Date as "+validation.DateLayout)
	addActivityCmd.Flags().String("time", "", "Start time as "+validation.ClockLayout)
	addActivityCmd.Flags().String("description", "", "Activity description")

	calendarCmd.Flags().Int("week", 0, "Weeks from the current one, may be negative")
	calendarCmd.Flags().StringSlice("hide", nil, "Group ID to leave out, may be repeated")

	rootCmd.AddCommand(addActivityCmd, calendarCmd, watchCmd)
}
