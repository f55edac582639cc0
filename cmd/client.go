package cmd

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/employee-admin/internal/client"
	"github.com/frahmantamala/employee-admin/internal/core/events"
	"github.com/frahmantamala/employee-admin/internal/employee"
	"github.com/frahmantamala/employee-admin/pkg/logger"
)

var (
	apiBaseURL string
	tokenFile  string

	listSearch   string
	listSortKey  string
	listSortDesc bool
	listPage     int
	listPageSize int

	createName        string
	createEmail       string
	createMobile      string
	createDesignation string
	createGender      string
	createCourses     []string
	createImagePath   string

	updateName        string
	updateEmail       string
	updateMobile      string
	updateDesignation string
	updateGender      string
	updateCourses     []string
	updateActive      bool

	deleteYes bool
)

// adminContext wires the pieces the client commands share: persisted
// session, API client and the notification bus printing to stderr.
type adminContext struct {
	session *client.Session
	api     *client.Client
	bus     *events.EventBus
}

func newAdminContext() (*adminContext, error) {
	lg := logger.LoggerWrapper()

	path := tokenFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".employee-admin", "token")
	}

	session, err := client.NewSession(client.NewFileTokenStore(path))
	if err != nil {
		return nil, err
	}

	bus := events.NewEventBus(lg)
	bus.Subscribe(events.EventTypeNotification, func(_ context.Context, e events.Event) error {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", events.NotificationLevel(e), events.NotificationMessage(e))
		return nil
	})

	return &adminContext{
		session: session,
		api:     client.New(apiBaseURL, session, lg),
		bus:     bus,
	}, nil
}

// requireLogin is the CLI's route guard: protected commands bail out to the
// login prompt before any network call when no token is persisted.
func (a *adminContext) requireLogin() error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not logged in; run `employee-admin login` first")
	}
	return nil
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and persist the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adm, err := newAdminContext()
		if err != nil {
			return err
		}

		password, err := promptPassword()
		if err != nil {
			return err
		}

		if err := adm.api.Login(args[0], password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Println("Logged in as", args[0])
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Register a new account and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adm, err := newAdminContext()
		if err != nil {
			return err
		}

		password, err := promptPassword()
		if err != nil {
			return err
		}

		if err := adm.api.Register(args[0], password); err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		fmt.Println("Registered and logged in as", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		adm, err := newAdminContext()
		if err != nil {
			return err
		}
		if err := adm.api.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Manage employee records",
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees with search, sort and pagination",
	RunE: func(cmd *cobra.Command, args []string) error {
		adm, err := newAdminContext()
		if err != nil {
			return err
		}
		if err := adm.requireLogin(); err != nil {
			return err
		}

		lc := client.NewListController(adm.api, adm.bus)
		if err := lc.Refresh(); err != nil {
			return err
		}

		lc.SetSearch(listSearch)
		if listPageSize > 0 {
			lc.SetPageSize(listPageSize)
		}
		if listSortKey != "" && listSortKey != lc.SortKey() {
			lc.SortBy(listSortKey)
		}
		if listSortDesc {
			// second select on the same key flips to descending
			lc.SortBy(lc.SortKey())
		}
		lc.SetPage(listPage)

		printEmployees(lc.Visible())
		fmt.Printf("page %d of %d\n", lc.Page()+1, lc.PageCount())
		return nil
	},
}

var employeesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an employee record",
	RunE: func(cmd *cobra.Command, args []string) error {
		adm, err := newAdminContext()
		if err != nil {
			return err
		}
		if err := adm.requireLogin(); err != nil {
			return err
		}

		fc := client.NewFormController(adm.api, adm.bus)
		fc.SetName(createName)
		fc.SetEmail(createEmail)
		fc.SetMobile(createMobile)
		fc.SetDesignation(createDesignation)
		fc.SetGender(createGender)
		for _, course := range createCourses {
			fc.ToggleCourse(strings.ToUpper(course))
		}

		if createImagePath != "" {
			data, err := os.ReadFile(createImagePath)
			if err != nil {
				return err
			}
			if err := fc.AttachImage(filepath.Base(createImagePath), http.DetectContentType(data), data); err != nil {
				return err
			}
		}

		emp, err := fc.SubmitCreate()
		if err != nil {
			return err
		}
		fmt.Printf("created employee %d (%s)\n", emp.ID, emp.Email)
		return nil
	},
}

var employeesToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Toggle an employee's active flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adm, err := newAdminContext()
		if err != nil {
			return err
		}
		if err := adm.requireLogin(); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid employee id %q", args[0])
		}

		lc := client.NewListController(adm.api, adm.bus)
		if err := lc.Refresh(); err != nil {
			return err
		}
		return lc.ToggleActive(id)
	},
}

var employeesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an employee record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adm, err := newAdminContext()
		if err != nil {
			return err
		}
		if err := adm.requireLogin(); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid employee id %q", args[0])
		}

		lc := client.NewListController(adm.api, adm.bus)
		if err := lc.Refresh(); err != nil {
			return err
		}

		confirm := func() bool {
			if deleteYes {
				return true
			}
			fmt.Printf("Are you sure you want to delete employee %d? [y/N] ", id)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			return strings.EqualFold(strings.TrimSpace(answer), "y")
		}

		return lc.Delete(id, confirm)
	},
}

var employeesUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update an employee record (only supplied flags change)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adm, err := newAdminContext()
		if err != nil {
			return err
		}
		if err := adm.requireLogin(); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid employee id %q", args[0])
		}

		var dto employee.UpdateEmployeeDTO
		if cmd.Flags().Changed("name") {
			dto.Name = &updateName
		}
		if cmd.Flags().Changed("email") {
			dto.Email = &updateEmail
		}
		if cmd.Flags().Changed("mobile") {
			dto.Mobile = &updateMobile
		}
		if cmd.Flags().Changed("designation") {
			dto.Designation = &updateDesignation
		}
		if cmd.Flags().Changed("gender") {
			dto.Gender = &updateGender
		}
		if cmd.Flags().Changed("course") {
			courses := make(employee.CourseList, 0, len(updateCourses))
			for _, course := range updateCourses {
				courses = append(courses, strings.ToUpper(course))
			}
			dto.Course = &courses
		}
		if cmd.Flags().Changed("active") {
			dto.IsActive = &updateActive
		}

		lc := client.NewListController(adm.api, adm.bus)
		if err := lc.Refresh(); err != nil {
			return err
		}
		return lc.SaveEdit(id, dto)
	},
}

func printEmployees(employees []*employee.Employee) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tMOBILE\tDESIGNATION\tGENDER\tCOURSE\tCREATED\tACTIVE")
	for _, emp := range employees {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			emp.ID, emp.Name, emp.Email, emp.Mobile, emp.Designation, emp.Gender,
			strings.Join(emp.Course, ","), emp.CreatedAt.Format("2006-01-02"), emp.IsActive)
	}
	w.Flush()
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(password), nil
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd, logoutCmd, employeesCmd} {
		c.PersistentFlags().StringVar(&apiBaseURL, "api", "http://localhost:8080", "API base URL")
		c.PersistentFlags().StringVar(&tokenFile, "token-file", "", "path of the persisted session token")
	}

	employeesListCmd.Flags().StringVar(&listSearch, "search", "", "filter by name or email substring")
	employeesListCmd.Flags().StringVar(&listSortKey, "sort", client.SortByName, "sort key: name or email")
	employeesListCmd.Flags().BoolVar(&listSortDesc, "desc", false, "sort descending")
	employeesListCmd.Flags().IntVar(&listPage, "page", 0, "page index")
	employeesListCmd.Flags().IntVar(&listPageSize, "page-size", client.DefaultPageSize, "rows per page")

	employeesCreateCmd.Flags().StringVar(&createName, "name", "", "employee name")
	employeesCreateCmd.Flags().StringVar(&createEmail, "email", "", "employee email")
	employeesCreateCmd.Flags().StringVar(&createMobile, "mobile", "", "10-digit mobile number")
	employeesCreateCmd.Flags().StringVar(&createDesignation, "designation", "", "HR, Manager or Sales")
	employeesCreateCmd.Flags().StringVar(&createGender, "gender", "", "M or F")
	employeesCreateCmd.Flags().StringSliceVar(&createCourses, "course", nil, "course codes (MCA, BCA, BSC)")
	employeesCreateCmd.Flags().StringVar(&createImagePath, "image", "", "path to a jpeg/png profile image")

	employeesUpdateCmd.Flags().StringVar(&updateName, "name", "", "employee name")
	employeesUpdateCmd.Flags().StringVar(&updateEmail, "email", "", "employee email")
	employeesUpdateCmd.Flags().StringVar(&updateMobile, "mobile", "", "10-digit mobile number")
	employeesUpdateCmd.Flags().StringVar(&updateDesignation, "designation", "", "HR, Manager or Sales")
	employeesUpdateCmd.Flags().StringVar(&updateGender, "gender", "", "M or F")
	employeesUpdateCmd.Flags().StringSliceVar(&updateCourses, "course", nil, "course codes (MCA, BCA, BSC)")
	employeesUpdateCmd.Flags().BoolVar(&updateActive, "active", true, "active flag")

	employeesDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")

	employeesCmd.AddCommand(employeesListCmd)
	employeesCmd.AddCommand(employeesCreateCmd)
	employeesCmd.AddCommand(employeesToggleCmd)
	employeesCmd.AddCommand(employeesDeleteCmd)
	employeesCmd.AddCommand(employeesUpdateCmd)
}
