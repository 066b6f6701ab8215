package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	TrialExtractFileDescription = `Extract registry fields from a clinical trial registration PDF.

**When to use:** Need the structured record behind a CTRI trial registration document: titles, sponsors, contacts, eligibility criteria, sites, outcomes.

**Why it's useful:** Runs the full section-aware extraction pipeline and returns named fields instead of raw page text, so the answer is directly usable.

**Examples:**
• Single trial lookup: "Extract fields from CTRI-2021-000123.pdf to get the primary outcome"
• Eligibility review: "Get inclusion and exclusion criteria from trial-registration.pdf"
• Contact discovery: "Extract the principal investigator and public query contact from a registration"

**Common workflows:**
1. Trial Review: Extract fields → Check eligibility criteria → Summarize for reviewers
2. Data Entry: Extract fields → Verify against source → Import to trial database
3. Screening: Extract fields → Filter by condition and phase → Shortlist trials

**Best practices:** Validate the file first; the populated-field count in the response signals how much the document actually yielded.`

	TrialValidateFileDescription = `Verify PDF file integrity and readability before extraction.

**When to use:** Before extracting any PDF, especially in automated workflows or when handling downloaded registry documents.

**Why it's useful:** Prevents extraction errors, identifies corrupted downloads early, and ensures compatibility with the extraction pipeline.

**Examples:**
• Batch safety: "Validate all PDFs in /registrations/ before a bulk export"
• Download verification: "Check CTRI-2020-004567.pdf is valid before extraction"

**Common workflows:**
1. Automated Processing: Validate → Extract if valid → Handle errors gracefully
2. Quality Check: Validate → Report issues → Re-download bad files

**Best practices:** Always run this first in automated workflows handling unknown PDFs.`

	TrialSearchDirectoryDescription = `Discover and filter trial registration PDFs across directories.

**When to use:** Need to find specific registrations by name patterns, explore a download directory, or build an extraction worklist.

**Why it's useful:** Quickly locates relevant documents without manual browsing, supports fuzzy matching for partial names.

**Examples:**
• Find a year: "Search /registrations/ for files containing '2021'"
• Build a worklist: "List all PDFs in /downloads/ to plan a batch export"

**Common workflows:**
1. Targeted Extraction: Search for specific patterns → Extract matching files
2. Inventory: Explore directory → Count documents → Plan batch sizes

**Best practices:** Use fuzzy search for partial matches; results are limited to the configured directory tree.`

	TrialServerInfoDescription = `Get server status, available tools, directory contents, and usage guidance.

**When to use:** Starting work with the extraction server, troubleshooting issues, or checking available functionality.

**Why it's useful:** Provides an overview of server capabilities, current configuration, and the configured document directory.

**Examples:**
• Session startup: "Verify the server is ready and list available documents"
• Troubleshooting: "Check server info to diagnose why files aren't being found"

**Best practices:** Run at the start of sessions for a quick overview of the configured directory.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"trial_extract_file":     TrialExtractFileDescription,
	"trial_validate_file":    TrialValidateFileDescription,
	"trial_search_directory": TrialSearchDirectoryDescription,
	"trial_server_info":      TrialServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
