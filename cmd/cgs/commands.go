package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/cgs/internal/auth"
	"github.com/kalambet/cgs/internal/catalog"
	"github.com/kalambet/cgs/internal/config"
	"github.com/kalambet/cgs/internal/profile"
	"github.com/kalambet/cgs/internal/recommend"
	"github.com/kalambet/cgs/internal/storage"
)

// --- login / logout ---

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Long: `Log in to the running server and store the session token in the
platform secret store for later commands.

Examples:
  cgs login --email ana@example.com
  echo "$PASSWORD" | cgs login --email ana@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/login", map[string]string{"email": email, "password": password})
		if err != nil {
			return err
		}
		var sess auth.Session
		if err := decodeJSON(resp, &sess); err != nil {
			return err
		}
		if err := config.SaveSessionToken(sess.Token); err != nil {
			return fmt.Errorf("storing session token: %w", err)
		}

		printSuccess("Logged in as %s (%s)", sess.Identity.Email, sess.Identity.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if client.token != "" {
			resp, err := client.post(cmd.Context(), "/logout", nil)
			if err != nil {
				printWarning("could not reach server: %v", err)
			} else if err := decodeJSON(resp, nil); err != nil {
				printWarning("%v", err)
			}
		}
		if err := config.ClearSessionToken(); err != nil {
			return fmt.Errorf("clearing session token: %w", err)
		}
		printSuccess("Logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (read from stdin when omitted)")
}

// --- courses ---

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List and manage courses",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		courses, err := client.listCourses(cmd.Context())
		if err != nil {
			return err
		}
		printCourses(os.Stdout, courses)
		return nil
	},
}

var coursesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a course as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCourseID(args[0])
		if err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/api/courses/"+strconv.FormatInt(id, 10))
		if err != nil {
			return err
		}
		var course any
		if err := decodeJSON(resp, &course); err != nil {
			return err
		}
		return printJSON(course)
	},
}

var coursesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a course (admin)",
	Long: `Add a course (admin).

Examples:
  cgs courses add --title "Python 101" --skills "Python,Pandas"
  cgs courses add --title "Stats" --trainer "Dr. Lee" --skills Statistics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			return fmt.Errorf("--title is required")
		}
		description, _ := cmd.Flags().GetString("description")
		trainer, _ := cmd.Flags().GetString("trainer")
		skillsStr, _ := cmd.Flags().GetString("skills")

		body := map[string]any{
			"courseTitle": title,
			"description": description,
			"name":        trainer,
			"skills":      splitList(skillsStr),
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/api/courses", body)
		if err != nil {
			return err
		}
		var created storage.Course
		if err := decodeJSON(resp, &created); err != nil {
			return err
		}
		printSuccess("Created course %d: %s", created.ID, created.Title)
		return nil
	},
}

var coursesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a course and its playlist (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCourseID(args[0])
		if err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/api/courses/"+strconv.FormatInt(id, 10))
		if err != nil {
			return err
		}
		if err := decodeJSON(resp, nil); err != nil {
			return err
		}
		printSuccess("Deleted course %d", id)
		return nil
	},
}

var coursesBySkillCmd = &cobra.Command{
	Use:   "by-skill <skill>",
	Short: "List courses teaching a skill",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		courses, err := client.coursesBySkill(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printCourses(os.Stdout, courses)
		return nil
	},
}

func init() {
	coursesAddCmd.Flags().String("title", "", "course title")
	coursesAddCmd.Flags().String("description", "", "course description")
	coursesAddCmd.Flags().String("trainer", "", "trainer name")
	coursesAddCmd.Flags().String("skills", "", "comma-separated skills taught")

	coursesCmd.AddCommand(coursesListCmd)
	coursesCmd.AddCommand(coursesShowCmd)
	coursesCmd.AddCommand(coursesAddCmd)
	coursesCmd.AddCommand(coursesDeleteCmd)
	coursesCmd.AddCommand(coursesBySkillCmd)
}

func parseCourseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid course id %q", s)
	}
	return id, nil
}

// --- recommend ---

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend courses for the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		courses, reason, err := client.recommend(cmd.Context())
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			fmt.Println(reasonMessage(recommend.Reason(reason)))
			return nil
		}
		printCourses(os.Stdout, courses)
		return nil
	},
}

// reasonMessage explains an empty recommendation result.
func reasonMessage(r recommend.Reason) string {
	switch r {
	case recommend.ReasonNoCourses:
		return "No courses are available yet."
	case recommend.ReasonAlreadyQualified:
		return "You already have every skill your career goal requires."
	case recommend.ReasonNoMissingSkills:
		return "You already have every skill the catalog teaches."
	case recommend.ReasonNoMatchingCourses:
		return "No course teaches the skills you are missing."
	case recommend.ReasonUnknownUser:
		return "No profile found for this account."
	default:
		return "No recommendations."
	}
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/api/profile")
		if err != nil {
			return err
		}
		var p any
		if err := decodeJSON(resp, &p); err != nil {
			return err
		}
		return printJSON(p)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a profile field",
	Long: `Set a profile field. Fields: ` + strings.Join(profile.Fields(), ", ") + `.

Skills accept a comma-separated list and replace the whole list.

Examples:
  cgs profile set career_goal "Data Scientist"
  cgs profile set skills "Python, SQL"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		patch, err := profilePatch(key, value)
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.patch(cmd.Context(), "/api/profile", patch)
		if err != nil {
			return err
		}
		if err := decodeJSON(resp, &storage.UserProfile{}); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}

// profilePatch builds the PATCH body for a single field.
func profilePatch(key, value string) (profile.Patch, error) {
	var p profile.Patch
	switch key {
	case profile.FieldName:
		p.Name = &value
	case profile.FieldInterests:
		p.Interests = &value
	case profile.FieldRole:
		p.Role = &value
	case profile.FieldCertification:
		p.Certification = &value
	case profile.FieldAchievements:
		p.Achievements = &value
	case profile.FieldCareerGoal:
		p.CareerGoal = &value
	case profile.FieldSkills:
		skills := splitList(value)
		p.Skills = &skills
	default:
		return p, fmt.Errorf("unknown profile field %q (valid: %s)", key, strings.Join(profile.Fields(), ", "))
	}
	return p, nil
}

// --- jobs ---

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Browse job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent job postings",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), fmt.Sprintf("/api/jobs?limit=%d", limit))
		if err != nil {
			return err
		}
		var jobs []storage.JobPosting
		if err := decodeJSON(resp, &jobs); err != nil {
			return err
		}

		if len(jobs) == 0 {
			fmt.Println("No job postings found.")
			return nil
		}
		for _, j := range jobs {
			line := colorize(colorBold, j.Title)
			if j.Company != "" {
				line += " at " + j.Company
			}
			if j.Location != "" {
				line += " (" + j.Location + ")"
			}
			fmt.Printf("%s  %s\n", colorize(colorCyan, fmt.Sprintf("%4d", j.ID)), line)
		}
		return nil
	},
}

func init() {
	jobsListCmd.Flags().Int("limit", 20, "maximum number of postings to list")
	jobsCmd.AddCommand(jobsListCmd)
}

// --- catalog ---

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the job-skills catalog",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List catalog jobs and their required skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		for _, j := range cat.Jobs() {
			fmt.Printf("%s: %s\n", colorize(colorBold, j.JobTitle), strings.Join(j.RequiredSkills, ", "))
		}
		return nil
	},
}

var catalogMatchCmd = &cobra.Command{
	Use:   "match <career goal>",
	Short: "Show which catalog job a career goal resolves to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		goal := strings.Join(args, " ")
		job, ok := cat.FindJob(goal)
		if !ok {
			printWarning("No catalog job matches %q; recommendations fall back to the skill gap", goal)
			return nil
		}
		fmt.Printf("%s: %s\n", colorize(colorBold, job.JobTitle), strings.Join(job.RequiredSkills, ", "))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogMatchCmd)
}

// loadCatalog reads the catalog configured for this machine without going
// through the server.
func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return catalog.NewLoader(cfg.Catalog.Path).Load(ctx)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Restore a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}

// --- helpers ---

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// splitList splits a comma-separated list, trimming entries and dropping
// blanks. It never returns nil.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
