package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/agentx-labs/trybuild/internal/dependencies"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/dependency.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of validating a dependency set.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is a single problem found in one declaration.
type ValidationIssue struct {
	Dependency string // Dependency name
	Path       string // Location inside the declaration (e.g., "/features/0")
	Message    string // Human-readable error message
	Keyword    string // Schema keyword that failed, or "semver"
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("dependency.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("dependency.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks every declaration in deps against the dependency schema
// and checks that declared versions parse as semver constraints. The error
// return is for schema compilation or conversion failures; declaration
// problems are reported in the ValidationResult.
func Validate(deps dependencies.Set) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	result := &ValidationResult{Valid: true}
	for _, name := range deps.Names() {
		issues, err := validateOne(schema, name, deps[name])
		if err != nil {
			return nil, err
		}
		result.Issues = append(result.Issues, issues...)
	}
	result.Valid = len(result.Issues) == 0
	return result, nil
}

func validateOne(schema *jsonschema.Schema, name string, dep dependencies.Dependency) ([]ValidationIssue, error) {
	// Round-trip through JSON so the validator sees json.Number and plain
	// maps regardless of which decoder produced the declaration.
	jsonData, err := json.Marshal(dep)
	if err != nil {
		return nil, fmt.Errorf("converting %s to JSON: %w", name, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing %s for validation: %w", name, err)
	}

	var issues []ValidationIssue
	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		issues = extractIssues(validationErr)
	}

	if dep.Version != nil {
		if _, err := semver.NewConstraint(*dep.Version); err != nil {
			issues = append(issues, ValidationIssue{
				Path:    "/version",
				Message: fmt.Sprintf("version requirement %q: %v", *dep.Version, err),
				Keyword: "semver",
			})
		}
	}

	for i := range issues {
		issues[i].Dependency = name
	}
	return issues, nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

// collectValidationIssues recursively walks the error tree to find leaf errors
// with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	keyword := ""
	if ve.ErrorKind != nil {
		kwPath := ve.ErrorKind.KeywordPath()
		if len(kwPath) > 0 {
			keyword = kwPath[len(kwPath)-1]
		}
	}

	// The anyOf branches each report a missing property; one summary reads
	// better than four.
	if keyword == "anyOf" {
		*issues = append(*issues, ValidationIssue{
			Path:    instancePath(ve),
			Message: "must declare at least one of: version, path, git, workspace",
			Keyword: keyword,
		})
		return
	}

	if len(ve.Causes) == 0 {
		if keyword == "oneOf" || keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		*issues = append(*issues, ValidationIssue{
			Path:    instancePath(ve),
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

func instancePath(ve *jsonschema.ValidationError) string {
	if len(ve.InstanceLocation) == 0 {
		return ""
	}
	return "/" + strings.Join(ve.InstanceLocation, "/")
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
