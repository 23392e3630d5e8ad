package ai

import "strings"

const MaxTags = 5

func SummaryPrompt(text string) string {
	return "Summarize the following text in 2–3 sentences:\n\n" + text
}

func ImprovePrompt(text string) string {
	return "Improve the following text by fixing grammar and clarity.\nReturn ONLY the improved text:\n\n" + text
}

func TagsPrompt(text string) string {
	return "Generate 3–5 relevant tags.\nReturn ONLY comma-separated tags.\n\n" + text
}

// ParseTags splits a comma-separated reply into at most MaxTags trimmed,
// non-empty tags.
func ParseTags(reply string) []string {
	tags := []string{}
	for _, part := range strings.Split(reply, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}
