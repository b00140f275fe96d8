package prompt

const (
	// DefaultPrePrompt is emitted before the system info line when no
	// pre-prompt is supplied.
	DefaultPrePrompt = "You are an LLM coding agent. Here are invariants that you must adhere to. " +
		"Please respond with 'Got it' when you have studied these and understand them. " +
		"At that point, the operator will give you further instructions. " +
		"You are *not* to do anything to the contents of this directory until you have been " +
		"explicitly asked to, by the operator."

	// DefaultPostPrompt is emitted last when neither the caller nor the
	// configuration supply a post-prompt.
	DefaultPostPrompt = "Now, read the @AGENTS.md and @CLAUDE.md files in this directory, if they exist."
)

// PostPrompt picks the post-prompt by precedence: an explicit override, then
// the configured value, then [DefaultPostPrompt].
func PostPrompt(override *string, configured string, hasConfigured bool) string {
	if override != nil {
		return *override
	}
	if hasConfigured {
		return configured
	}

	return DefaultPostPrompt
}
