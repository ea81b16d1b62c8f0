package article

import "strings"

const topicPlaceholder = "{{topic}}"

// DefaultPromptTemplate asks for a Markdown article and no images.
const DefaultPromptTemplate = `Write a blog article with a title and content about the following topic: "{{topic}}". ` +
	`Format the text in Markdown with the title as the first line, followed by headings and paragraphs. ` +
	`Do not include images in the content, only text.`

// BuildPrompt embeds topic into template. An empty template uses DefaultPromptTemplate;
// a template without the placeholder gets the topic appended.
func BuildPrompt(template, topic string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultPromptTemplate
	}
	topic = strings.TrimSpace(topic)
	if !strings.Contains(template, topicPlaceholder) {
		return strings.TrimSpace(template) + "\n\nTopic: " + topic
	}
	return strings.ReplaceAll(template, topicPlaceholder, topic)
}
