package analysis

import "fmt"

// maxAnalysisChars is the delivery bound for the generated analysis; it
// matches the transport's message size ceiling.
const maxAnalysisChars = 4000

const promptTemplate = `You are an expert financial analyst specialized in technical analysis of stock charts.

Analyze the following historical stock data for %s. The data includes date, closing price, and trading volume.

Historical Data:
%s

Perform a comprehensive analysis including:

1. Correlation Analysis:
   - Calculate the correlation coefficient between stock price and trading volume
   - Explain what this correlation means (value between -1 and 1, where -1 is strong negative correlation, 1 is strong positive correlation, and 0 is no correlation)
   - Identify any periods where correlation patterns changed

2. Price Trend Analysis:
   - Identify key support and resistance levels
   - Note any significant price patterns (e.g., head and shoulders, double tops/bottoms)
   - Calculate and interpret moving averages (if applicable)

3. Volume Analysis:
   - Identify unusual volume spikes and their relationship to price movements
   - Assess volume trends compared to price movements

4. Market Insights:
   - Provide contextual interpretation of the data patterns
   - Identify potential anomalies or outliers in the data

5. Trading Strategy Recommendations:
   - Suggest potential entry and exit points based on the analysis
   - Recommend appropriate risk management strategies

Additional Context:
%s

Your analysis should be data-driven, objective, and based on the technical aspects.
Note: Response should be strictly within %d characters and also response should be in MARKDOWN format so that text can be sent in formatted way.`

// buildPrompt composes the final completion prompt from the symbol, the
// historical digest, and any additional context (typically the OCR fragment).
func buildPrompt(symbol, digest, additionalContext string) string {
	if additionalContext == "" {
		additionalContext = "None."
	}
	return fmt.Sprintf(promptTemplate, symbol, digest, additionalContext, maxAnalysisChars)
}
