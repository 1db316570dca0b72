// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"marigold-copilot/internal/models"
	"marigold-copilot/pkg/registry"
)

var registryPath string

func main() {
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{initCmd, addCmd, updateCmd, validateCmd} {
		fs.StringVar(&registryPath, "path", "configs/surfaces.json", "Path to registry file")
	}
	force := initCmd.Bool("force", false, "Overwrite an existing registry file")

	// Add command flags
	idAdd := addCmd.String("id", "", "Surface ID (e.g., campaigns)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Campaign Performance)")
	placeholder := addCmd.String("placeholder", "", "Prompt bar placeholder text")
	prompts := addCmd.String("prompts", "", "Suggested prompts separated by '|'")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Surface ID to update")
	field := updateCmd.String("field", "", "Field to update (displayName, placeholder, prompts)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		initCmd.Parse(os.Args[2:])
		if err := initRegistry(*force); err != nil {
			fmt.Printf("Error writing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default surfaces to %s\n", registryPath)

	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" {
			fmt.Println("Error: id and displayName are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		surface := models.Surface{
			ID:               *idAdd,
			DisplayName:      *displayName,
			Placeholder:      *placeholder,
			SuggestedPrompts: splitPrompts(*prompts),
		}
		if err := addSurface(surface); err != nil {
			fmt.Printf("Error adding surface: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added surface: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" {
			fmt.Println("Error: id and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateSurface(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating surface: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated surface %s, field %s\n", *idUpdate, *field)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		if err := reg.Validate(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d surfaces.\n", len(reg.Surfaces))

	case "help":
		fallthrough
	default:
		help()
	}
}

func initRegistry(force bool) error {
	if _, err := os.Stat(registryPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", registryPath)
	}
	return registry.Default().Save(registryPath)
}

func addSurface(surface models.Surface) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.SurfaceRegistry{Version: "1.0.0"}
	}

	if _, err := reg.Lookup(surface.ID); err == nil {
		return fmt.Errorf("surface with ID %s already exists", surface.ID)
	}

	reg.Surfaces = append(reg.Surfaces, surface)
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(registryPath)
}

func updateSurface(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Surfaces {
		if reg.Surfaces[i].ID != id {
			continue
		}
		found = true
		switch field {
		case "displayName":
			reg.Surfaces[i].DisplayName = value
		case "placeholder":
			reg.Surfaces[i].Placeholder = value
		case "prompts":
			reg.Surfaces[i].SuggestedPrompts = splitPrompts(value)
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("surface with ID %s not found", id)
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(registryPath)
}

func splitPrompts(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  init     Write the built-in surfaces to the registry file
  add      Add a new surface to the registry
  update   Update an existing surface's field
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater init -path configs/surfaces.json
  registry-updater add -id retention -displayName "Retention" -prompts "Why are customers churning?|Who is at risk?"
  registry-updater update -id campaigns -field placeholder -value "Ask about a campaign..."
  registry-updater validate -path configs/surfaces.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
