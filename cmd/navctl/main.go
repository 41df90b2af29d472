package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const version = "0.1.0"

var serverURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "navctl",
		Short: "NicheNav CLI - interact with your NicheNav server",
		Long: `navctl is a command-line interface for NicheNav servers.
All output is structured JSON by default (pipe through jq for human-readable formatting).`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", getDefaultServer(), "NicheNav server URL")

	rootCmd.AddCommand(newLoginCommand())
	rootCmd.AddCommand(newRegisterCommand())
	rootCmd.AddCommand(newWhoamiCommand())
	rootCmd.AddCommand(newIdeaCommand())
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newSubscriptionCommand())
	rootCmd.AddCommand(newPricingCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newAnalyticsCommand())
	rootCmd.AddCommand(newStatusCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getDefaultServer() string {
	if server := os.Getenv("NICHENAV_SERVER"); server != "" {
		return server
	}
	return "http://localhost:8080"
}

// --- HTTP client ---

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func newClient() *Client {
	return &Client{
		BaseURL: serverURL,
		Token:   loadToken(),
		HTTP:    &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) do(method, path string, params url.Values, data interface{}) ([]byte, error) {
	u := fmt.Sprintf("%s%s", c.BaseURL, path)
	if params != nil {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data: %w", err)
		}
		body = strings.NewReader(string(jsonData))
	}

	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("not authenticated; run `navctl login` first")
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func (c *Client) get(path string, params url.Values) ([]byte, error) {
	return c.do("GET", path, params, nil)
}

func (c *Client) post(path string, data interface{}) ([]byte, error) {
	return c.do("POST", path, nil, data)
}

func (c *Client) patch(path string, data interface{}) ([]byte, error) {
	return c.do("PATCH", path, nil, data)
}

func (c *Client) delete(path string) ([]byte, error) {
	return c.do("DELETE", path, nil, nil)
}

// outputJSON prints raw JSON data. All commands use this as the primary output path.
func outputJSON(data []byte) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		fmt.Println(string(data))
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// --- Token storage ---

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nichenav-token"
	}
	return filepath.Join(home, ".nichenav", "token")
}

func loadToken() string {
	if token := os.Getenv("NICHENAV_TOKEN"); token != "" {
		return token
	}
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func saveToken(token string) error {
	path := tokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// --- Auth commands ---

func newLoginCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Log in and store a session token",
		Example: `  navctl login --email=me@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword()
			if err != nil {
				return err
			}

			client := newClient()
			data, err := client.post("/api/v1/auth/login", map[string]interface{}{
				"email":    email,
				"password": password,
			})
			if err != nil {
				return err
			}

			var resp struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(data, &resp); err != nil || resp.Token == "" {
				return fmt.Errorf("login response carried no token")
			}
			if err := saveToken(resp.Token); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Logged in; token stored at %s\n", tokenPath())
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (required)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCommand() *cobra.Command {
	var (
		email    string
		username string
	)
	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Create an account and store a session token",
		Example: `  navctl register --email=me@example.com --username=me`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword()
			if err != nil {
				return err
			}

			client := newClient()
			data, err := client.post("/api/v1/auth/register", map[string]interface{}{
				"email":    email,
				"username": username,
				"password": password,
			})
			if err != nil {
				return err
			}

			var resp struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(data, &resp); err != nil || resp.Token == "" {
				return fmt.Errorf("register response carried no token")
			}
			if err := saveToken(resp.Token); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Account created; token stored at %s\n", tokenPath())
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (required)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Display name (defaults to the email local part)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.get("/api/v1/auth/me", nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

// --- Idea commands ---

func newIdeaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idea",
		Short: "Manage business ideas",
	}
	cmd.AddCommand(newIdeaListCommand())
	cmd.AddCommand(newIdeaCreateCommand())
	cmd.AddCommand(newIdeaShowCommand())
	cmd.AddCommand(newIdeaUpdateCommand())
	cmd.AddCommand(newIdeaDeleteCommand())
	cmd.AddCommand(newIdeaDuplicateCommand())
	cmd.AddCommand(newIdeaSearchCommand())
	cmd.AddCommand(newIdeaStatsCommand())
	cmd.AddCommand(newIdeaSignalCommand())
	cmd.AddCommand(newIdeaAnalysisCommand())
	return cmd
}

func newIdeaListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your ideas",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.get("/api/v1/ideas", nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

func newIdeaCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		category    string
		revenue     int
		targetUsers int
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a new idea",
		Example: `  navctl idea create --name="Invoice chaser for freelancers" --category=finance`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.post("/api/v1/ideas", map[string]interface{}{
				"name":              name,
				"description":       description,
				"problem_category":  category,
				"revenue_potential": revenue,
				"target_users":      targetUsers,
			})
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Idea name (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Idea description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Problem category")
	cmd.Flags().IntVar(&revenue, "revenue", 0, "Estimated monthly revenue potential (USD)")
	cmd.Flags().IntVar(&targetUsers, "target-users", 0, "Estimated target user count")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newIdeaShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <idea-id>",
		Short: "Show idea details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.get(fmt.Sprintf("/api/v1/ideas/%s", args[0]), nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

func newIdeaUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
		stage       string
		category    string
	)
	cmd := &cobra.Command{
		Use:     "update <idea-id>",
		Short:   "Update idea fields",
		Args:    cobra.ExactArgs(1),
		Example: `  navctl idea update abc123 --stage=testing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			body := map[string]interface{}{}
			if cmd.Flags().Changed("name") {
				body["name"] = name
			}
			if cmd.Flags().Changed("description") {
				body["description"] = description
			}
			if cmd.Flags().Changed("stage") {
				body["validation_stage"] = stage
			}
			if cmd.Flags().Changed("category") {
				body["problem_category"] = category
			}
			data, err := client.patch(fmt.Sprintf("/api/v1/ideas/%s", args[0]), body)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&stage, "stage", "", "New validation stage (initial, testing, validated, rejected)")
	cmd.Flags().StringVar(&category, "category", "", "New problem category")
	return cmd
}

func newIdeaDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <idea-id>",
		Short: "Delete an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.delete(fmt.Sprintf("/api/v1/ideas/%s", args[0]))
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

func newIdeaDuplicateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <idea-id>",
		Short: "Duplicate an idea as a fresh starting point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.post(fmt.Sprintf("/api/v1/ideas/%s/duplicate", args[0]), nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

func newIdeaSearchCommand() *cobra.Command {
	var (
		query    string
		category string
		stage    string
		sortBy   string
	)
	cmd := &cobra.Command{
		Use:     "search",
		Short:   "Search and filter ideas",
		Example: `  navctl idea search --query=invoice --stage=testing --sort=revenue_potential`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			params := url.Values{}
			if query != "" {
				params.Set("q", query)
			}
			if category != "" {
				params.Set("category", category)
			}
			if stage != "" {
				params.Set("stage", stage)
			}
			if sortBy != "" {
				params.Set("sort_by", sortBy)
			}
			data, err := client.get("/api/v1/ideas/search", params)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Text to match in name or description")
	cmd.Flags().StringVar(&category, "category", "", "Filter by problem category")
	cmd.Flags().StringVar(&stage, "stage", "", "Filter by validation stage")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort field (created_at, name, revenue_potential, target_users)")
	return cmd
}

func newIdeaStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show portfolio statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.get("/api/v1/ideas/statistics", nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

func newIdeaSignalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Record and list validation signals",
	}

	var (
		kind   string
		result string
	)
	record := &cobra.Command{
		Use:     "record <idea-id>",
		Short:   "Record a validation signal",
		Args:    cobra.ExactArgs(1),
		Example: `  navctl idea signal record abc123 --kind=interview --result='{"action":"completed","participant":"Dana"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload json.RawMessage
			if result != "" {
				if !json.Valid([]byte(result)) {
					return fmt.Errorf("--result must be valid JSON")
				}
				payload = json.RawMessage(result)
			}

			client := newClient()
			data, err := client.post(fmt.Sprintf("/api/v1/ideas/%s/signals", args[0]), map[string]interface{}{
				"kind":   kind,
				"result": payload,
			})
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
	record.Flags().StringVarP(&kind, "kind", "k", "", "Signal kind: survey, interview, landing_page, prototype (required)")
	record.Flags().StringVarP(&result, "result", "r", "", "Signal payload as JSON")
	record.MarkFlagRequired("kind")

	list := &cobra.Command{
		Use:   "list <idea-id>",
		Short: "List an idea's validation signals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.get(fmt.Sprintf("/api/v1/ideas/%s/signals", args[0]), nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}

	cmd.AddCommand(record)
	cmd.AddCommand(list)
	return cmd
}

func newIdeaAnalysisCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analysis <idea-id>",
		Short: "Show the idea's validation score and recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.get(fmt.Sprintf("/api/v1/ideas/%s/analysis", args[0]), nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

// --- Generation commands ---

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ideas and validation assets",
	}
	cmd.AddCommand(newGenerateIdeasCommand())
	cmd.AddCommand(newGenerateQuestionsCommand())
	cmd.AddCommand(newGenerateSurveyCommand())
	cmd.AddCommand(newGenerateMonetizationCommand())
	cmd.AddCommand(newGenerateAcquisitionCommand())
	return cmd
}

func newGenerateIdeasCommand() *cobra.Command {
	var (
		keywords string
		industry string
	)
	cmd := &cobra.Command{
		Use:     "ideas",
		Short:   "Generate micro-SaaS idea candidates",
		Example: `  navctl generate ideas --keywords="invoicing, freelancers" --industry=finance`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.post("/api/v1/generate/ideas", map[string]interface{}{
				"keywords": keywords,
				"industry": industry,
			})
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keywords, "keywords", "k", "", "Keywords to seed generation (required)")
	cmd.Flags().StringVarP(&industry, "industry", "i", "", "Industry focus")
	cmd.MarkFlagRequired("keywords")
	return cmd
}

func newGenerateQuestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "questions <idea-id>",
		Short: "Generate validation questions for an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.post(fmt.Sprintf("/api/v1/ideas/%s/questions", args[0]), nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

func newGenerateSurveyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "survey <idea-id>",
		Short: "Generate a survey template for an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.post(fmt.Sprintf("/api/v1/ideas/%s/survey", args[0]), nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

func newGenerateMonetizationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "monetization <idea-id>",
		Short: "Generate a monetization strategy for an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.post(fmt.Sprintf("/api/v1/ideas/%s/monetization", args[0]), nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

func newGenerateAcquisitionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "acquisition <idea-id>",
		Short: "Generate a customer acquisition strategy for an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.post(fmt.Sprintf("/api/v1/ideas/%s/acquisition", args[0]), nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

// --- Subscription commands ---

func newSubscriptionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub"},
		Short:   "View and manage your subscription",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show subscription status, limits, and usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.get("/api/v1/subscription", nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "upgrade",
		Short: "Start a pro-plan checkout and print the payment URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.post("/api/v1/subscription/checkout", nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "portal",
		Short: "Open the billing portal and print its URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.post("/api/v1/subscription/portal", nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	})

	return cmd
}

func newPricingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pricing",
		Short: "Show available plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.get("/api/v1/billing/pricing", nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

// --- Export and analytics commands ---

func newExportCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export your ideas (pro feature)",
		Example: `  navctl export --format=csv > ideas.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			params := url.Values{}
			params.Set("format", format)
			data, err := client.get("/api/v1/export", params)
			if err != nil {
				return err
			}
			if format == "csv" {
				fmt.Print(string(data))
				return nil
			}
			outputJSON(data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, csv")
	return cmd
}

func newAnalyticsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show the advanced validation breakdown (pro feature)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			data, err := client.get("/api/v1/analytics", nil)
			if err != nil {
				return err
			}
			outputJSON(data)
			return nil
		},
	}
}

// --- Status command ---

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and your usage in one JSON object",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			result := map[string]interface{}{}

			if data, err := client.get("/api/v1/health", nil); err == nil {
				var v interface{}
				if json.Unmarshal(data, &v) == nil {
					result["health"] = v
				}
			}

			if client.Token != "" {
				if data, err := client.get("/api/v1/subscription", nil); err == nil {
					var v interface{}
					if json.Unmarshal(data, &v) == nil {
						result["subscription"] = v
					}
				}
			}

			out, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}
}
