// Package config loads the workflow-mcp server configuration.
//
// # Configuration Loading
//
// Load merges configuration from several sources, later ones winning:
//
//  1. <dir>/.env (only variables not already set)
//  2. $XDG_CONFIG_HOME/workflow-mcp/config.{json,jsonc,yaml,yml}
//  3. <dir>/workflow-mcp.{json,jsonc,yaml,yml}
//  4. <dir>/.workflow-mcp/config.{json,jsonc,yaml,yml}
//  5. the file named by WORKFLOW_MCP_CONFIG
//  6. inline JSON in WORKFLOW_MCP_CONFIG_CONTENT
//  7. WORKFLOW_MCP_LOG_LEVEL, WORKFLOW_MCP_ADDR, WORKFLOW_MCP_TRANSPORT,
//     WORKFLOW_MCP_SESSION_ID and WORKFLOW_MCP_PROGRESS
//
// JSONC comments are stripped with tidwall/jsonc. YAML files are converted
// to JSON first so both formats use the same field names.
//
// # Variable Interpolation
//
// File contents may reference {env:NAME} and {file:path}. Relative file paths
// are resolved against the directory of the config file.
//
// # Example
//
//	{
//	  "transport": "http",
//	  "addr": "127.0.0.1:8080",
//	  "workflows": {"disable": ["feature*"]},
//	  "workflow": {
//	    "plus-number": {"description": "Add two numbers"}
//	  }
//	}
//
// All file access goes through an afero.Fs so tests can use an in-memory
// filesystem.
package config
