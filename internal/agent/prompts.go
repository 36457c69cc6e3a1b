package agent

// Prompt templates for the completion backend. The schema summary is the
// only catalog context the model ever sees, so every template that needs
// structural awareness embeds it.

const systemPromptTemplate = `You are a data analyst assistant. You help users query a data warehouse by converting their questions into SQL.

%s

INSTRUCTIONS:
1. Analyze the schema to understand what data is available
2. Write a DuckDB SQL query to answer the user's question
3. Always qualify table names with schema (e.g. schema_name.table_name)
4. Return ONLY the SQL query, no explanation, no markdown code blocks
5. If you can't answer with the available data, say so

TIPS:
- Infer meaning from table and column names
- Tables with "fct" or transaction data typically have metrics to aggregate
- Tables with "dim" or entity data are usually for grouping and filtering
- Use JOINs when combining data from multiple tables`

const repairPromptTemplate = `The SQL query you generated failed with this error:

Error: %s

%s

Original question: %s

Failed SQL:
` + "```sql\n%s\n```" + `

Please fix the SQL query. Return ONLY the corrected SQL, no explanation.`

const summarizePromptTemplate = `The user asked: %q

I ran this SQL:
` + "```sql\n%s\n```" + `

Results (showing up to %d rows):
%s

Please provide a clear, concise answer to the user's question based on these results. Include key numbers and insights. If the data shows interesting patterns, mention them.`

const summarizeSystemPrompt = "You are a helpful data analyst."
