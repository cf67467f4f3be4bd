package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leoyin88/user-api/cmd/cli/config"
	"github.com/leoyin88/user-api/cmd/cli/output"
	"github.com/leoyin88/user-api/cmd/cli/root"
	"github.com/leoyin88/user-api/internal/models"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
		Long:  "List, inspect, create, update, and delete users through the User API.",
	}

	usersCmd.AddCommand(
		listUsersCmd(),
		getUserCmd(),
		createUserCmd(),
		updateUserCmd(),
		deleteUserCmd(),
	)
	root.GetRoot().AddCommand(usersCmd)
}

// envelope mirrors the API response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := request("GET", "/api/users", nil)
			if err != nil {
				return err
			}

			var users []models.User
			if err := json.Unmarshal(env.Data, &users); err != nil {
				return fmt.Errorf("decode users: %w", err)
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				output.RenderJSON(users)
				return nil
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username, u.Email, ageString(u.Age), u.CreatedAt.Format("2006-01-02")})
			}
			output.RenderTable([]string{"ID", "USERNAME", "EMAIL", "AGE", "CREATED"}, rows)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print raw JSON instead of a table")
	return cmd
}

// ==========================
// Get User
// ==========================
func getUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			env, err := request("GET", "/api/users/"+strconv.Itoa(id), nil)
			if err != nil {
				return err
			}

			var u models.User
			if err := json.Unmarshal(env.Data, &u); err != nil {
				return fmt.Errorf("decode user: %w", err)
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				output.RenderJSON(u)
				return nil
			}

			output.RenderTable(
				[]string{"ID", "USERNAME", "EMAIL", "AGE", "CREATED", "UPDATED"},
				[][]interface{}{{u.ID, u.Username, u.Email, ageString(u.Age), u.CreatedAt.Format("2006-01-02"), u.UpdatedAt.Format("2006-01-02")}},
			)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print raw JSON instead of a table")
	return cmd
}

// ==========================
// Create User
// ==========================
func createUserCmd() *cobra.Command {
	var username, email, password string
	var age int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"username": username,
				"email":    email,
				"password": password,
			}
			if cmd.Flags().Changed("age") {
				payload["age"] = age
			}

			env, err := request("POST", "/api/users", payload)
			if err != nil {
				return err
			}

			var out struct {
				ID int `json:"id"`
			}
			if err := json.Unmarshal(env.Data, &out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			fmt.Printf("User created with id %d\n", out.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username (required)")
	cmd.Flags().StringVar(&email, "email", "", "email (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	cmd.Flags().IntVar(&age, "age", 0, "age (optional)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

// ==========================
// Update User (partial)
// ==========================
func updateUserCmd() *cobra.Command {
	var username, email, password string
	var age int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an existing user",
		Long:  "Only flags that are set are sent; absent fields keep their stored values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			payload := map[string]interface{}{}
			if cmd.Flags().Changed("username") {
				payload["username"] = username
			}
			if cmd.Flags().Changed("email") {
				payload["email"] = email
			}
			if cmd.Flags().Changed("password") {
				payload["password"] = password
			}
			if cmd.Flags().Changed("age") {
				payload["age"] = age
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update: set at least one of --username, --email, --password, --age")
			}

			if _, err := request("PUT", "/api/users/"+strconv.Itoa(id), payload); err != nil {
				return err
			}
			fmt.Println("User updated successfully")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().IntVar(&age, "age", 0, "new age")
	return cmd
}

// ==========================
// Delete User
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if _, err := request("DELETE", "/api/users/"+strconv.Itoa(id), nil); err != nil {
				return err
			}
			fmt.Println("User deleted successfully")
			return nil
		},
	}
}

// ==========================
// HTTP helpers
// ==========================

// request performs an API call and decodes the envelope. Non-2xx responses
// become errors carrying the API's message.
func request(method, path string, payload interface{}) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := config.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid API response: %s", string(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (%d): %s", env.Code, env.Message)
	}
	return &env, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q: must be a positive integer", s)
	}
	return id, nil
}

func ageString(age *int) string {
	if age == nil {
		return "-"
	}
	return strconv.Itoa(*age)
}
