package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
)

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	ProjectName string
	ModuleName  string
	SiteName    string
}

// scaffoldFiles maps output paths (relative to the project root) to their
// file templates. The templates are inlined so the binary stays
// self-contained.
var scaffoldFiles = map[string]string{
	"go.mod":       goModTemplate,
	"main.go":      mainGoTemplate,
	".env.example": dotenvTemplate,
	".gitignore":   gitignoreTemplate,
}

func runNew(name string) error {
	// Derive project directory name from the last path segment.
	dirName := name
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		dirName = name[idx+1:]
	}

	if _, err := os.Stat(dirName); err == nil {
		return fmt.Errorf("directory %q already exists", dirName)
	}

	data := scaffoldData{
		ProjectName: dirName,
		ModuleName:  name,
		SiteName:    toTitle(dirName),
	}

	fmt.Printf("Creating new kargopress project: %s\n\n", dirName)

	for relPath, tmplText := range scaffoldFiles {
		outPath := filepath.Join(dirName, relPath)

		tmpl, err := template.New(relPath).Parse(tmplText)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", relPath, err)
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		if err := tmpl.Execute(f, data); err != nil {
			f.Close()
			return fmt.Errorf("execute template %s: %w", relPath, err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Printf("  created %s\n", outPath)
	}

	if err := os.MkdirAll(filepath.Join(dirName, "public"), 0o755); err != nil {
		return err
	}

	// Resolve dependencies and generate go.sum.
	fmt.Println("\nResolving Go dependencies...")
	tidy := exec.Command("go", "mod", "tidy")
	tidy.Dir = dirName
	tidy.Stdout = os.Stdout
	tidy.Stderr = os.Stderr
	if err := tidy.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "\nWarning: go mod tidy failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run 'cd %s && go mod tidy' manually after fixing.\n", dirName)
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", dirName)
	fmt.Println("  go run .")
	fmt.Println()
	fmt.Println("Fill in the ViewFuncs in main.go with your own templ components.")
	fmt.Println("Set ADMIN_PASSWORD and SESSION_SECRET in .env for production.")
	return nil
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-site" -> "My Site", "mysite" -> "Mysite"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

const goModTemplate = `module {{.ModuleName}}

go 1.24.0

require (
	github.com/a-h/templ v0.3.960
	github.com/kargopress/kargopress v0.1.0
)
`

const mainGoTemplate = `package main

import (
	"log"

	"github.com/a-h/templ"
	"github.com/kargopress/kargopress"
)

func main() {
	cfg := kargopress.Config{
		Name:          "{{.SiteName}}",
		URL:           kargopress.EnvOr("SITE_URL", "http://localhost:3000"),
		Addr:          kargopress.EnvOr("ADDR", ":3000"),
		AdminPassword: kargopress.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: kargopress.MustEnv("SESSION_SECRET"),
	}

	app := kargopress.New(cfg, views())
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// views wires your templ components into the engine. Replace the
// placeholders below with components of your own.
func views() kargopress.ViewFuncs {
	return kargopress.ViewFuncs{
		Home:             func(vm kargopress.HomeView) templ.Component { return placeholder("home") },
		NewsList:         func(vm kargopress.ListView) templ.Component { return placeholder("news") },
		NewsDetail:       func(vm kargopress.DetailView) templ.Component { return placeholder("news detail") },
		UsefulInfoList:   func(vm kargopress.ListView) templ.Component { return placeholder("useful info") },
		UsefulInfoDetail: func(vm kargopress.DetailView) templ.Component { return placeholder("useful info detail") },
		AdminLogin:       func(bool, string) templ.Component { return placeholder("admin login") },
		AdminDashboard:   func(vm kargopress.AdminDashboardView) templ.Component { return placeholder("admin") },
		AdminArticleForm: func(vm kargopress.AdminFormView) templ.Component { return placeholder("article form") },
		AdminSettings:    func(vm kargopress.AdminSettingsView) templ.Component { return placeholder("settings") },
		NotFound:         func() templ.Component { return placeholder("not found") },
		ServerError:      func() templ.Component { return placeholder("server error") },
	}
}

func placeholder(name string) templ.Component {
	return templ.Raw("<h1>" + name + "</h1>")
}
`

const dotenvTemplate = `# Copy to .env and fill in before running in production.
SITE_URL=http://localhost:3000
ADDR=:3000
ADMIN_PASSWORD=
SESSION_SECRET=
`

const gitignoreTemplate = `.env
data/
public/uploads/
{{.ProjectName}}
`
