// Package prompts holds the instruction templates for the three workflows
// and the map/reduce instructions used when a digest is analyzed in parts.
package prompts

import (
	"embed"
	"fmt"
)

//go:embed templates/*.txt
var templates embed.FS

// Workflow template names.
const (
	RecruiterAudit = "recruiter_audit"
	CodeReview     = "code_review"
	MRDescription  = "mr_description"
)

// ErrNotFound is returned when no template exists under the requested name.
var ErrNotFound = fmt.Errorf("prompt template not found")

// Load returns the template text for the given workflow name.
func Load(name string) (string, error) {
	data, err := templates.ReadFile("templates/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return string(data), nil
}

// MapInstruction wraps a workflow template into the per-chunk instruction of
// the map phase. The chunk index is 1-based.
func MapInstruction(template, repoURL string, index, total int) string {
	return fmt.Sprintf(
		"You are analyzing PART %d of %d of the repository %s.\n\n%s\n\n"+
			"INSTRUCTIONS FOR PARTIAL ANALYSIS:\n"+
			"- Identify key findings in THIS chunk only.\n"+
			"- Be concise but specific.\n"+
			"- If you see partial implementations, note them.\n"+
			"- DO NOT generate the final fully formatted report yet; provide a structured summary of observations.",
		index, total, repoURL, template)
}

// ReduceSystem is the system prompt for the combining pass.
func ReduceSystem(repoURL string) string {
	return fmt.Sprintf(
		"You are a Lead Tech Auditor. Synthesize the provided partial findings into a final report for %s.",
		repoURL)
}

// ReduceInstruction builds the user content for the combining pass from the
// ordered partial findings.
func ReduceInstruction(template, repoURL, combinedFindings string, total int) string {
	return fmt.Sprintf(
		"You have analyzed the repository %s in %d parts. "+
			"Below are the partial findings from each part. "+
			"Synthesize these into a SINGLE, COHERENT final report following the original report format exactly.\n\n"+
			"ORIGINAL PROMPT:\n%s\n\n"+
			"PARTIAL FINDINGS TO SYNTHESIZE:\n%s",
		repoURL, total, template, combinedFindings)
}
