package sqlquery

import (
	"encoding/json"
	"fmt"

	"sleuth/internal/dataset"
)

const generateSystem = `You are an expert SQL developer. Convert natural language questions to SQL queries.

Database Schema:
%s

Rules:
1. Generate ONLY the SQL query, no explanations
2. Use proper SQL syntax for SQLite
3. Always use SELECT statements unless explicitly asked for modifications
4. Use proper table joins when needed
5. Include appropriate WHERE clauses, GROUP BY, ORDER BY as needed
6. Ensure column names and table names match the schema exactly
7. Use proper aggregation functions (COUNT, SUM, AVG, etc.) when appropriate

Example:
Question: "What are the top 5 selling products?"
SQL: SELECT p.product_name, SUM(s.quantity) as total_sold FROM products p JOIN sales s ON p.product_id = s.product_id GROUP BY p.product_id, p.product_name ORDER BY total_sold DESC LIMIT 5;

Now generate SQL for the following question:`

const explainSystem = `You are a helpful data analyst. Explain SQL query results in clear, natural language.

Guidelines:
1. Start by acknowledging the user's question
2. Provide a clear, concise summary of the findings
3. Include the most important data points from the results
4. If there are many results, summarize the key insights
5. Use natural language, not technical jargon
6. If no results were found, explain that clearly
7. Be conversational and helpful

Format your response to be informative but easy to understand.`

func generatePrompt(schema string) string {
	return fmt.Sprintf(generateSystem, schema)
}

func explainPrompt(question, sql, results string) string {
	return fmt.Sprintf(`User Question: %s

SQL Query Used: %s

Query Results: %s

Please explain these results in natural language:`, question, sql, results)
}

// promptRowLimit caps how many rows are inlined into the explain
// prompt.
const promptRowLimit = 10

// resultsText renders a result set for the explain prompt: at most the
// first ten rows, with a note about how many were held back.
func resultsText(rs dataset.ResultSet) string {
	if len(rs.Rows) == 0 {
		return "No results found"
	}

	shown := rs.Rows
	if len(shown) > promptRowLimit {
		shown = shown[:promptRowLimit]
	}
	data, err := json.Marshal(shown)
	if err != nil {
		data = []byte(fmt.Sprintf("%v", shown))
	}

	text := string(data)
	if hidden := len(rs.Rows) - len(shown); hidden > 0 {
		text += fmt.Sprintf("\n... and %d more results", hidden)
	}
	return text
}
