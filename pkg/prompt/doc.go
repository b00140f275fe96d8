// Package prompt assembles rendered prompt text from file contents.
//
// The layout is fixed:
//
//	<pre-prompt>
//
//	<system info line>
//
//	<doc1><separator><doc2>...<docN>
//
//	<post-prompt>
//
// Rendering does no file I/O, resolution, deduplication or reordering.
package prompt
