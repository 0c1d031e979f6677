// gqlgatectl: CLI admin para gqlgate (schemas y queries de prueba).
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func (c *client) do(method, path string, body []byte, headers map[string]string) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("X-Admin-API-Key", c.APIKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	var v any
	if json.Unmarshal(body, &v) == nil {
		p, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(p))
		return
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("GQLGATE_URL", "http://localhost:8080")
		apiKey  = envOr("GQLGATE_ADMIN_KEY", "")
	)

	root := &cobra.Command{
		Use:   "gqlgatectl",
		Short: "CLI admin para gqlgate (/admin/schemas y /graphql)",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del gateway (env GQLGATE_URL)")
	root.PersistentFlags().StringVar(&apiKey, "admin-api-key", apiKey, "API key del Admin API (env GQLGATE_ADMIN_KEY)")

	cl := &client{BaseURL: baseURL, APIKey: apiKey, HTTP: &http.Client{Timeout: 30 * time.Second}}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cl.BaseURL, cl.APIKey = baseURL, apiKey
	}

	schemasCmd := &cobra.Command{
		Use:   "schemas",
		Short: "CRUD de schemas de autorización",
	}

	schemasCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Listar schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/admin/schemas", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})

	schemasCmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Obtener un schema por id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/admin/schemas/"+args[0], nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})

	var (
		createName   string
		createScope  []string
		createExpiry string
		createPublic bool
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear un schema (imprime el access token generado)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if createName == "" && !createPublic {
				return fmt.Errorf("falta --name")
			}
			payload := map[string]any{
				"name":     createName,
				"scope":    createScope,
				"enabled":  true,
				"isPublic": createPublic,
			}
			if createExpiry != "" {
				payload["expiryDate"] = createExpiry
			}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/admin/schemas", b, nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createName, "name", "", "nombre del schema")
	createCmd.Flags().StringSliceVar(&createScope, "scope", nil, "permisos component:action (repetible)")
	createCmd.Flags().StringVar(&createExpiry, "expiry", "", "expiración RFC3339 (opcional)")
	createCmd.Flags().BoolVar(&createPublic, "public", false, "marcar como schema público")
	schemasCmd.AddCommand(createCmd)

	schemasCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Borrar un schema por id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("DELETE", "/admin/schemas/"+args[0], nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})

	var queryToken string
	queryCmd := &cobra.Command{
		Use:   "query <graphql>",
		Short: "Ejecutar una query contra /graphql",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := map[string]string{"Content-Type": "application/graphql"}
			if queryToken != "" {
				headers["Authorization"] = "Bearer " + queryToken
			}
			status, body, err := cl.do("POST", "/graphql", []byte(args[0]), headers)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	queryCmd.Flags().StringVar(&queryToken, "token", "", "access token (omitir para el schema público)")

	root.AddCommand(schemasCmd, queryCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
