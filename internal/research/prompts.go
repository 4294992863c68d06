package research

import (
	"fmt"
	"strings"
)

const summarizeSystem = `You are an expert research assistant. Your task is to summarize web page content in relation to a specific research query. Focus on extracting the most relevant information that directly addresses the research question.

Guidelines:
- Extract key facts, statistics, and insights relevant to the query
- Maintain factual accuracy and avoid adding interpretations
- Keep summaries concise but informative (200-300 words)
- Include specific details like dates, numbers, names when relevant
- If the content is not relevant to the query, mention that clearly`

func summarizePrompt(query string, p Page) string {
	return fmt.Sprintf(`Research Query: %s

Web Page Title: %s
Web Page URL: %s

Content to Summarize:
%s

Please provide a focused summary of this content in relation to the research query.`,
		query, p.Title, p.URL, p.Content)
}

const reportSystem = `You are an expert research analyst tasked with creating comprehensive, well-structured research reports. Your goal is to synthesize information from multiple sources into a coherent, insightful report.

Report Structure:
1. **Executive Summary** - Brief overview of key findings
2. **Introduction** - Context and background of the research topic
3. **Key Findings** - Main insights organized by themes/topics
4. **Analysis** - Deeper analysis, trends, and implications
5. **Conclusion** - Summary of main takeaways and implications
6. **Sources** - List all sources with their URLs

Guidelines:
- Use clear, professional language
- Organize information logically with proper headings
- Cite sources appropriately [1], [2], etc.
- Highlight key statistics, dates, and facts
- Draw connections between different sources
- Maintain objectivity and factual accuracy`

func reportPrompt(query string, summaries []Summary) string {
	var sources strings.Builder
	for i, s := range summaries {
		fmt.Fprintf(&sources, "\n\n--- Source %d ---\n", i+1)
		fmt.Fprintf(&sources, "Title: %s\n", s.Title)
		fmt.Fprintf(&sources, "URL: %s\n", s.URL)
		fmt.Fprintf(&sources, "Summary: %s\n", s.Text)
	}
	return fmt.Sprintf(`Research Query: %s

Source Summaries:
%s

Please create a comprehensive research report that synthesizes all the information above into a well-structured, professional document that thoroughly addresses the research query.`,
		query, sources.String())
}
