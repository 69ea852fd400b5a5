package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "pystyle"

	// ConfigFileName is the default config file name
	ConfigFileName = ".pystyle.yaml"

	// PyprojectFileName holds a [tool.pystyle] table when present
	PyprojectFileName = "pyproject.toml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "PYSTYLE"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatCSV  = "csv"
)

// Rule thresholds
const (
	// MaxLineLength is the longest line, in characters, that passes the length rule
	MaxLineLength = 79

	// IndentWidth is the unit leading whitespace must be a multiple of
	IndentWidth = 4

	// MaxBlankRun is the longest run of blank lines allowed before code
	MaxBlankRun = 2

	// MinInlineCommentGap is the number of spaces required before an inline comment
	MinInlineCommentGap = 2
)

// PythonFileExtension identifies files the checker applies to
const PythonFileExtension = ".py"
