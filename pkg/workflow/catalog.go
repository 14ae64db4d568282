package workflow

import (
	"sort"

	"github.com/cloudwego/eino/schema"
)

// Input shapes of the agent-side tools. Every field is optional so a
// workflow can send a partial property bag.

// AgentInput launches a subagent.
type AgentInput struct {
	Description  string `json:"description,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
	SubagentType string `json:"subagent_type,omitempty"`
}

// QuestionOption is one answer offered to the user.
type QuestionOption struct {
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

// Question is a single question put to the user.
type Question struct {
	Question    string           `json:"question,omitempty"`
	Header      string           `json:"header,omitempty"`
	Options     []QuestionOption `json:"options,omitempty"`
	MultiSelect bool             `json:"multiSelect,omitempty"`
}

// AskUserQuestionInput asks the user one or more questions.
type AskUserQuestionInput struct {
	Questions []Question `json:"questions,omitempty"`
}

// BashInput runs a shell command.
type BashInput struct {
	Command         string `json:"command,omitempty"`
	Timeout         int    `json:"timeout,omitempty"`
	Description     string `json:"description,omitempty"`
	RunInBackground bool   `json:"run_in_background,omitempty"`
}

// ExitPlanModeInput presents a plan and leaves plan mode.
type ExitPlanModeInput struct {
	Plan string `json:"plan,omitempty"`
}

// FileEditInput replaces text in a file.
type FileEditInput struct {
	FilePath   string `json:"file_path,omitempty"`
	OldString  string `json:"old_string,omitempty"`
	NewString  string `json:"new_string,omitempty"`
	ReplaceAll bool   `json:"replace_all,omitempty"`
}

// FileReadInput reads a file, optionally a line range of it.
type FileReadInput struct {
	FilePath string `json:"file_path,omitempty"`
	Offset   int    `json:"offset,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// FileWriteInput writes a whole file.
type FileWriteInput struct {
	FilePath string `json:"file_path,omitempty"`
	Content  string `json:"content,omitempty"`
}

// GlobInput finds files by glob pattern.
type GlobInput struct {
	Pattern string `json:"pattern,omitempty"`
	Path    string `json:"path,omitempty"`
}

// GrepInput searches file contents.
type GrepInput struct {
	Pattern         string `json:"pattern,omitempty"`
	Path            string `json:"path,omitempty"`
	Glob            string `json:"glob,omitempty"`
	Type            string `json:"type,omitempty"`
	OutputMode      string `json:"output_mode,omitempty"`
	CaseInsensitive bool   `json:"-i,omitempty"`
	HeadLimit       int    `json:"head_limit,omitempty"`
	Multiline       bool   `json:"multiline,omitempty"`
}

// KillShellInput stops a background shell.
type KillShellInput struct {
	ShellID string `json:"shell_id,omitempty"`
}

// ListMcpResourcesInput lists the resources of MCP servers.
type ListMcpResourcesInput struct {
	Server string `json:"server,omitempty"`
}

// McpInput is free-form: MCP tools define their own arguments.
type McpInput map[string]any

// NotebookEditInput edits a notebook cell.
type NotebookEditInput struct {
	NotebookPath string `json:"notebook_path,omitempty"`
	CellID       string `json:"cell_id,omitempty"`
	NewSource    string `json:"new_source,omitempty"`
	CellType     string `json:"cell_type,omitempty"`
	EditMode     string `json:"edit_mode,omitempty"`
}

// ReadMcpResourceInput reads one MCP resource.
type ReadMcpResourceInput struct {
	Server string `json:"server,omitempty"`
	URI    string `json:"uri,omitempty"`
}

// TaskOutputInput fetches the output of a background task.
type TaskOutputInput struct {
	TaskID  string `json:"task_id,omitempty"`
	Block   bool   `json:"block,omitempty"`
	Timeout int    `json:"timeout,omitempty"`
}

// Todo is one entry of the todo list.
type Todo struct {
	Content    string `json:"content,omitempty"`
	Status     string `json:"status,omitempty"`
	ActiveForm string `json:"activeForm,omitempty"`
}

// TodoWriteInput replaces the todo list.
type TodoWriteInput struct {
	Todos []Todo `json:"todos,omitempty"`
}

// WebFetchInput fetches a URL and processes it with a prompt.
type WebFetchInput struct {
	URL    string `json:"url,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// WebSearchInput searches the web.
type WebSearchInput struct {
	Query          string   `json:"query,omitempty"`
	AllowedDomains []string `json:"allowed_domains,omitempty"`
	BlockedDomains []string `json:"blocked_domains,omitempty"`
}

func param(t schema.DataType, desc string, required bool) *schema.ParameterInfo {
	return &schema.ParameterInfo{Type: t, Desc: desc, Required: required}
}

var (
	AgentKind = ToolKind{
		Name:        "Agent",
		Description: "Launch a sub-agent to handle a task autonomously",
		Params: map[string]*schema.ParameterInfo{
			"description":   param(schema.String, "A short description of the task", true),
			"prompt":        param(schema.String, "The task for the agent to perform", true),
			"subagent_type": param(schema.String, "The type of specialized agent to use", false),
		},
	}
	AskUserQuestionKind = ToolKind{
		Name:        "AskUserQuestion",
		Description: "Ask the user questions and collect the answers",
		Params: map[string]*schema.ParameterInfo{
			"questions": param(schema.Array, "Questions to ask the user", true),
		},
	}
	BashKind = ToolKind{
		Name:        "Bash",
		Description: "Execute a shell command",
		Params: map[string]*schema.ParameterInfo{
			"command":           param(schema.String, "The command to execute", true),
			"timeout":           param(schema.Integer, "Optional timeout in milliseconds", false),
			"description":       param(schema.String, "What the command does", false),
			"run_in_background": param(schema.Boolean, "Run the command in the background", false),
		},
	}
	ExitPlanModeKind = ToolKind{
		Name:        "ExitPlanMode",
		Description: "Present a plan and leave plan mode",
		Params: map[string]*schema.ParameterInfo{
			"plan": param(schema.String, "The plan to present", true),
		},
	}
	FileEditKind = ToolKind{
		Name:        "FileEdit",
		Description: "Replace text in a file",
		Params: map[string]*schema.ParameterInfo{
			"file_path":   param(schema.String, "Absolute path of the file", true),
			"old_string":  param(schema.String, "Text to replace", true),
			"new_string":  param(schema.String, "Replacement text", true),
			"replace_all": param(schema.Boolean, "Replace every occurrence", false),
		},
	}
	FileReadKind = ToolKind{
		Name:        "FileRead",
		Description: "Read a file",
		Params: map[string]*schema.ParameterInfo{
			"file_path": param(schema.String, "Absolute path of the file", true),
			"offset":    param(schema.Integer, "Line to start reading from", false),
			"limit":     param(schema.Integer, "Number of lines to read", false),
		},
	}
	FileWriteKind = ToolKind{
		Name:        "FileWrite",
		Description: "Write a file",
		Params: map[string]*schema.ParameterInfo{
			"file_path": param(schema.String, "Absolute path of the file", true),
			"content":   param(schema.String, "Content to write", true),
		},
	}
	GlobKind = ToolKind{
		Name:        "Glob",
		Description: "Find files by glob pattern",
		Params: map[string]*schema.ParameterInfo{
			"pattern": param(schema.String, "The glob pattern", true),
			"path":    param(schema.String, "Directory to search in", false),
		},
	}
	GrepKind = ToolKind{
		Name:        "Grep",
		Description: "Search file contents with a regular expression",
		Params: map[string]*schema.ParameterInfo{
			"pattern":     param(schema.String, "The regular expression", true),
			"path":        param(schema.String, "File or directory to search", false),
			"glob":        param(schema.String, "Glob filter for files", false),
			"type":        param(schema.String, "File type filter", false),
			"output_mode": param(schema.String, "content, files_with_matches or count", false),
			"-i":          param(schema.Boolean, "Case insensitive search", false),
			"head_limit":  param(schema.Integer, "Limit the number of results", false),
			"multiline":   param(schema.Boolean, "Let patterns span lines", false),
		},
	}
	KillShellKind = ToolKind{
		Name:        "KillShell",
		Description: "Kill a background shell",
		Params: map[string]*schema.ParameterInfo{
			"shell_id": param(schema.String, "The shell to kill", true),
		},
	}
	ListMcpResourcesKind = ToolKind{
		Name:        "ListMcpResources",
		Description: "List resources exposed by MCP servers",
		Params: map[string]*schema.ParameterInfo{
			"server": param(schema.String, "Restrict to one server", false),
		},
	}
	McpKind = ToolKind{
		Name:        "Mcp",
		Description: "Call a tool exposed by an MCP server",
	}
	NotebookEditKind = ToolKind{
		Name:        "NotebookEdit",
		Description: "Edit a Jupyter notebook cell",
		Params: map[string]*schema.ParameterInfo{
			"notebook_path": param(schema.String, "Absolute path of the notebook", true),
			"cell_id":       param(schema.String, "The cell to edit", false),
			"new_source":    param(schema.String, "New cell source", true),
			"cell_type":     param(schema.String, "code or markdown", false),
			"edit_mode":     param(schema.String, "replace, insert or delete", false),
		},
	}
	ReadMcpResourceKind = ToolKind{
		Name:        "ReadMcpResource",
		Description: "Read a resource exposed by an MCP server",
		Params: map[string]*schema.ParameterInfo{
			"server": param(schema.String, "The server name", true),
			"uri":    param(schema.String, "The resource URI", true),
		},
	}
	TaskOutputKind = ToolKind{
		Name:        "TaskOutput",
		Description: "Read the output of a background task",
		Params: map[string]*schema.ParameterInfo{
			"task_id": param(schema.String, "The task to read", true),
			"block":   param(schema.Boolean, "Wait for the task to finish", false),
			"timeout": param(schema.Integer, "Wait timeout in milliseconds", false),
		},
	}
	TodoWriteKind = ToolKind{
		Name:        "TodoWrite",
		Description: "Update the todo list",
		Params: map[string]*schema.ParameterInfo{
			"todos": param(schema.Array, "The updated todo list", true),
		},
	}
	WebFetchKind = ToolKind{
		Name:        "WebFetch",
		Description: "Fetch a URL and process its content",
		Params: map[string]*schema.ParameterInfo{
			"url":    param(schema.String, "The URL to fetch", true),
			"prompt": param(schema.String, "What to extract from the page", true),
		},
	}
	WebSearchKind = ToolKind{
		Name:        "WebSearch",
		Description: "Search the web",
		Params: map[string]*schema.ParameterInfo{
			"query":           param(schema.String, "The search query", true),
			"allowed_domains": param(schema.Array, "Only include these domains", false),
			"blocked_domains": param(schema.Array, "Never include these domains", false),
		},
	}
)

// ToolSet holds one typed helper per tool kind.
type ToolSet struct {
	Agent            Tool[AgentInput]
	AskUserQuestion  Tool[AskUserQuestionInput]
	Bash             Tool[BashInput]
	ExitPlanMode     Tool[ExitPlanModeInput]
	FileEdit         Tool[FileEditInput]
	FileRead         Tool[FileReadInput]
	FileWrite        Tool[FileWriteInput]
	Glob             Tool[GlobInput]
	Grep             Tool[GrepInput]
	KillShell        Tool[KillShellInput]
	ListMcpResources Tool[ListMcpResourcesInput]
	Mcp              Tool[McpInput]
	NotebookEdit     Tool[NotebookEditInput]
	ReadMcpResource  Tool[ReadMcpResourceInput]
	TaskOutput       Tool[TaskOutputInput]
	TodoWrite        Tool[TodoWriteInput]
	WebFetch         Tool[WebFetchInput]
	WebSearch        Tool[WebSearchInput]
}

// Tools is the catalog of agent-side tools.
var Tools = ToolSet{
	Agent:            NewTool[AgentInput](AgentKind),
	AskUserQuestion:  NewTool[AskUserQuestionInput](AskUserQuestionKind),
	Bash:             NewTool[BashInput](BashKind),
	ExitPlanMode:     NewTool[ExitPlanModeInput](ExitPlanModeKind),
	FileEdit:         NewTool[FileEditInput](FileEditKind),
	FileRead:         NewTool[FileReadInput](FileReadKind),
	FileWrite:        NewTool[FileWriteInput](FileWriteKind),
	Glob:             NewTool[GlobInput](GlobKind),
	Grep:             NewTool[GrepInput](GrepKind),
	KillShell:        NewTool[KillShellInput](KillShellKind),
	ListMcpResources: NewTool[ListMcpResourcesInput](ListMcpResourcesKind),
	Mcp:              NewTool[McpInput](McpKind),
	NotebookEdit:     NewTool[NotebookEditInput](NotebookEditKind),
	ReadMcpResource:  NewTool[ReadMcpResourceInput](ReadMcpResourceKind),
	TaskOutput:       NewTool[TaskOutputInput](TaskOutputKind),
	TodoWrite:        NewTool[TodoWriteInput](TodoWriteKind),
	WebFetch:         NewTool[WebFetchInput](WebFetchKind),
	WebSearch:        NewTool[WebSearchInput](WebSearchKind),
}

// Catalog returns every tool kind, sorted by name.
func Catalog() []ToolKind {
	kinds := []ToolKind{
		AgentKind, AskUserQuestionKind, BashKind, ExitPlanModeKind,
		FileEditKind, FileReadKind, FileWriteKind, GlobKind, GrepKind,
		KillShellKind, ListMcpResourcesKind, McpKind, NotebookEditKind,
		ReadMcpResourceKind, TaskOutputKind, TodoWriteKind, WebFetchKind,
		WebSearchKind,
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].Name < kinds[j].Name })
	return kinds
}
