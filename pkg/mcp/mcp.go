// Package mcp serves prompter's profiles over the Model Context Protocol.
package mcp

const (
	name         = "prompter"
	instructions = `MCP Server 'prompter' composes prompts from a library of markdown snippets, grouped into named profiles.

When to use these tools:
- Finding out which coding conventions and instructions apply to a task
- Loading a profile's instructions into the conversation
- Checking a prompter configuration after editing it

Workflow:
1. Use 'list_profiles' to see the available profiles (optionally with a fuzzy filter)
2. Use 'resolve_profile' to see which files a profile expands to, in order
3. Use 'render_profile' to get the full composed prompt for a profile
4. After editing the configuration or library, use 'validate_config' to check for unknown profiles, cycles and missing files
`

	// defaultSuggestions is the number of similar names returned when a
	// requested profile does not exist.
	defaultSuggestions = 3
)
