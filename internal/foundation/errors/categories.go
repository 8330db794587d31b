package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors,
	// including template names missing from the registry.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryIngest covers unreadable files and malformed metadata headers.
	CategoryIngest ErrorCategory = "ingest"
	// CategoryQuery covers content-graph queries that reported errors.
	CategoryQuery ErrorCategory = "query"
	// CategoryRegistration covers page-registration sink failures.
	CategoryRegistration ErrorCategory = "registration"

	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGit        ErrorCategory = "git"

	CategoryInternal ErrorCategory = "internal"
)

// Stage names the pipeline stage an error category belongs to.
func (c ErrorCategory) Stage() string {
	switch c {
	case CategoryIngest, CategoryGit, CategoryFileSystem:
		return "ingestion"
	case CategoryQuery:
		return "query"
	case CategoryRegistration, CategoryValidation:
		return "registration"
	case CategoryConfig:
		return "configuration"
	default:
		return "build"
	}
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the build
	SeverityError   ErrorSeverity = "error"   // Fails the current record or operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
	SeverityInfo    ErrorSeverity = "info"
)

// Canonical context keys.
const (
	ContextFile  = "file"
	ContextStage = "stage"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
