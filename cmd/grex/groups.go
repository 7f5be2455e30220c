package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/client"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/navigation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func parseGroupID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(arg))
	if err != nil {
		return uuid.Nil, errors.Errorf("%q is not a valid group ID", arg)
	}
	return id, nil
}

// goTo switches screens and returns the page now shown.
func goTo[T navigation.Page](screen navigation.Screen) (T, error) {
	var zero T
	if err := app.Navigator().Go(screen); err != nil {
		return zero, err
	}
	p, ok := app.Page().(T)
	if !ok {
		return zero, errNotSignedIn
	}
	return p, nil
}

func openGroup(cmd *cobra.Command, arg string) (*client.GroupDetailPage, error) {
	id, err := parseGroupID(arg)
	if err != nil {
		return nil, err
	}
	if err := app.Navigator().OpenGroup(id); err != nil {
		return nil, err
	}
	p, ok := app.Page().(*client.GroupDetailPage)
	if !ok {
		return nil, errNotSignedIn
	}
	if err := p.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return p, nil
}

func confirmPrompt(prompt string) bool {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Please confirm").
				Description(prompt).
				Value(&ok),
		),
	).Run()
	return err == nil && ok
}

func printGroups(groups []models.Group, isFavorite func(uuid.UUID) bool) {
	if len(groups) == 0 {
		fmt.Println(infoStyle.Render("No groups found."))
		return
	}
	for _, g := range groups {
		name := headerStyle.Render(g.Name)
		if isFavorite != nil && isFavorite(g.ID) {
			name = favoriteStyle.Render("★ ") + name
		}
		visibility := "public"
		if !g.IsPublic {
			visibility = "private"
		}
		fmt.Printf("%s %s\n", name, mutedStyle.Render("("+visibility+", "+g.ID.String()+")"))
		if g.Description != "" {
			fmt.Println("  " + g.Description)
		}
		if len(g.Tags) > 0 {
			fmt.Println("  " + mutedStyle.Render("#"+strings.Join(g.Tags, " #")))
		}
	}
}

func printMeetup(m models.Meetup, groupName string) {
	line := fmt.Sprintf("%s  %s", m.DateTime.Local().Format("Mon 02 Jan 15:04"), m.Title)
	if groupName != "" {
		line += mutedStyle.Render("  " + groupName)
	}
	fmt.Println("  " + line)
}

var homeCmd = &cobra.Command{
	Use:     "home",
	Short:   "Show your featured groups and today's activities",
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := goTo[*client.HomePage](navigation.Home)
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render(p.Welcome()))

		fmt.Println(headerStyle.Render("Your groups"))
		printGroups(p.Featured(), p.IsFavorite)
		if rest := len(p.Groups()) - len(p.Featured()); rest > 0 {
			fmt.Println(mutedStyle.Render(fmt.Sprintf("…and %d more (grex groups)", rest)))
		}
		fmt.Println()

		today := p.Today()
		fmt.Println(headerStyle.Render(fmt.Sprintf("Today's activities (%d)", len(today))))
		for _, e := range today {
			printMeetup(e.Meetup, e.GroupName)
		}
		return nil
	},
}

var groupsCmd = &cobra.Command{
	Use:     "groups",
	Short:   "List the groups you own or belong to",
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := goTo[*client.AllGroupsPage](navigation.AllGroups)
		if err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString("search")
		p.SetSearch(search)
		printGroups(p.Groups(), app.Favorites().Has)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search public groups on the server",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := gw.SearchPublicGroups(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printGroups(groups, nil)
		return nil
	},
}

var joinCmd = &cobra.Command{
	Use:     "join [group-id]",
	Short:   "List public groups, or join one by ID",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := goTo[*client.JoinGroupPage](navigation.JoinGroup)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			search, _ := cmd.Flags().GetString("search")
			p.SetSearch(search)
			for _, g := range p.Groups() {
				status := ""
				if p.IsJoined(g.ID) {
					status = badgeStyle.Render("Joined")
				}
				fmt.Printf("%s %s %s\n", headerStyle.Render(g.Name), mutedStyle.Render(g.ID.String()), status)
			}
			return nil
		}
		id, err := parseGroupID(args[0])
		if err != nil {
			return err
		}
		return report(p.Join(cmd.Context(), id))
	},
}

var createCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a group",
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := goTo[*client.CreateGroupPage](navigation.CreateGroup)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		private, _ := cmd.Flags().GetBool("private")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		if name == "" {
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Group name").Value(&name),
					huh.NewText().Title("Description").Value(&description),
					huh.NewConfirm().Title("Private group?").Value(&private),
				),
			).Run()
			if err != nil {
				return err
			}
		}

		p.SetName(name)
		p.SetDescription(description)
		p.SetPrivate(private)
		for _, t := range tags {
			p.AddTag(t)
		}
		g, n := p.Submit(cmd.Context())
		if err := report(n); err != nil {
			return err
		}
		if g != nil {
			fmt.Println(mutedStyle.Render("ID " + g.ID.String()))
		}
		return nil
	},
}

var groupCmd = &cobra.Command{
	Use:     "group <group-id>",
	Short:   "Show a group with its activities and members",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openGroup(cmd, args[0])
		if err != nil {
			return err
		}
		g, ok := p.Group()
		if !ok {
			return errors.New("group not found")
		}
		perms := p.Permissions()

		title := g.Name
		if perms.IsOwner {
			title += " " + badgeStyle.Render("Owner")
		}
		fmt.Println(titleStyle.Render(title))
		if g.Description != "" {
			fmt.Println(g.Description)
		}

		tab, _ := cmd.Flags().GetString("tab")
		p.SetTab(client.Tab(tab))
		switch p.Tab() {
		case client.TabMembers:
			fmt.Println(headerStyle.Render(fmt.Sprintf("Members (%d)", len(p.Members()))))
			for _, m := range p.Members() {
				fmt.Printf("  %s %s\n", m.DisplayName, mutedStyle.Render(string(m.Role)+" "+m.UserID.String()))
			}
		default:
			upcoming := p.Upcoming()
			fmt.Println(headerStyle.Render(fmt.Sprintf("Upcoming activities (%d)", len(upcoming))))
			for _, m := range upcoming {
				printMeetup(m, "")
			}
		}
		return nil
	},
}

var privacyCmd = &cobra.Command{
	Use:     "privacy <group-id>",
	Short:   "Toggle a group between public and private",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openGroup(cmd, args[0])
		if err != nil {
			return err
		}
		if !p.Permissions().CanTogglePrivacy {
			return errors.New("only the owner can change privacy")
		}
		return report(p.TogglePrivacy(cmd.Context()))
	},
}

var addMemberCmd = &cobra.Command{
	Use:     "add-member <group-id> <user-id>",
	Short:   "Add a user to a group you own",
	Args:    cobra.ExactArgs(2),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openGroup(cmd, args[0])
		if err != nil {
			return err
		}
		if !p.OpenAddMember() {
			return errors.New("only the owner can add members")
		}
		p.SetNewMemberID(args[1])
		return report(p.ConfirmAddMember(cmd.Context()))
	},
}

var leaveCmd = &cobra.Command{
	Use:     "leave <group-id>",
	Short:   "Leave a group",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openGroup(cmd, args[0])
		if err != nil {
			return err
		}
		if !p.Permissions().CanLeave {
			return errors.New("owners cannot leave their own group")
		}
		return report(p.Leave(cmd.Context(), confirmPrompt))
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <group-id>",
	Short:   "Delete a group you own with its members and activities",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openGroup(cmd, args[0])
		if err != nil {
			return err
		}
		if !p.Permissions().CanDelete {
			return errors.New("only the owner can delete a group")
		}
		return report(p.Delete(cmd.Context(), confirmPrompt))
	},
}

var copyIDCmd = &cobra.Command{
	Use:     "copy-id <group-id>",
	Short:   "Copy a group ID to the clipboard",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openGroup(cmd, args[0])
		if err != nil {
			return err
		}
		return report(p.CopyGroupID())
	},
}

var iconCmd = &cobra.Command{
	Use:     "icon <group-id> <image-file>",
	Short:   "Upload a group icon",
	Args:    cobra.ExactArgs(2),
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseGroupID(args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		g, err := gw.UploadGroupIcon(cmd.Context(), id, filepath.Base(args[1]), f)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Icon updated for " + g.Name + "."))
		return nil
	},
}

var membershipsCmd = &cobra.Command{
	Use:     "memberships",
	Short:   "List your group memberships and roles",
	PreRunE: requireUser,
	RunE: func(cmd *cobra.Command, _ []string) error {
		members, err := gw.ListMemberships(cmd.Context())
		if err != nil {
			return err
		}
		groups := app.Groups()
		for _, m := range members {
			name := m.GroupID.String()
			for _, g := range groups {
				if g.ID == m.GroupID {
					name = g.Name
				}
			}
			fmt.Printf("%s %s\n", headerStyle.Render(name), mutedStyle.Render(string(m.Role)))
		}
		return nil
	},
}

func init() {
	groupsCmd.Flags().String("search", "", "Filter by name")
	joinCmd.Flags().String("search", "", "Filter public groups by name")

	createCmd.Flags().String("name", "", "Group name (prompted when empty)")
	createCmd.Flags().String("description", "", "Group description")
	createCmd.Flags().Bool("private", false, "Create a private group")
	createCmd.Flags().StringSlice("tag", nil, "Tag, may be repeated")

	groupCmd.Flags().String("tab", string(client.TabActivities), "activities or members")

	rootCmd.AddCommand(homeCmd, groupsCmd, searchCmd, joinCmd, createCmd, groupCmd,
		privacyCmd, addMemberCmd, leaveCmd, deleteCmd, copyIDCmd, iconCmd, membershipsCmd)
}
