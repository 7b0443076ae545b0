package explain

// demoTexts is the static educational copy used in demo mode, keyed by
// risk name. Descriptive, never advisory.
var demoTexts = map[string]string{
	"over_leverage": "Position sizes that are large relative to the account balance amplify both " +
		"gains and losses, and increase the chance that a normal losing streak forces the account " +
		"into a margin call. Risk-management literature commonly references keeping exposure per " +
		"trade in the low single digits of account equity.",
	"missing_stop_loss": "A trade entered without a stop-loss order has no predefined exit on the " +
		"losing side, which leaves the downside open-ended and makes risk per trade impossible to " +
		"plan in advance. Consistent stop-loss usage is one of the most widely tracked discipline " +
		"measures in retrospective trade reviews.",
	"poor_risk_reward": "When the average winning trade is smaller than the average losing trade, " +
		"the win rate has to be unusually high just to break even. Tracking the ratio of average " +
		"win to average loss makes this trade-off visible across a whole period rather than trade " +
		"by trade.",
	"revenge_trading": "Re-entering the market within minutes of a losing trade is a common " +
		"emotional pattern: the new position is often sized or timed to win back the loss rather " +
		"than on its own merits. Clusters of quick re-entries after losses are a recognized marker " +
		"of this behavior.",
	"excessive_drawdown": "Drawdown measures how far the account fell from its equity peak. Deep " +
		"drawdowns compound recovery difficulty: a 50% decline requires a 100% gain to recover. " +
		"The size of the maximum drawdown is a standard summary of how much risk was actually " +
		"taken, whatever the final P&L.",
	"overtrading": "Days with an unusually high number of trades often coincide with reduced " +
		"selectivity: more positions taken on weaker setups, higher transaction costs, and less " +
		"time evaluating each entry. Comparing the busiest day against a personal baseline makes " +
		"the pattern visible.",
}
