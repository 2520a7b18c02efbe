package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"earn-notification-bot/internal/domain/model"
)

// TrackingParam is appended to every listing URL sent out by the bot.
const TrackingParam = "utm_source=telegrambot"

// RewardText renders the reward line of a notification.
// Variable compensation wins over everything; a range is shown as
// "TOKEN min - max (~$usd)"; otherwise "TOKEN value (~$usd)".
func RewardText(l *model.Listing) string {
	if l.VariableCompensation {
		return "Variable Compensation"
	}
	if l.RewardRange != nil {
		return fmt.Sprintf("%s %s - %s (~$%s)",
			l.RewardToken,
			formatAmount(l.RewardRange.Min),
			formatAmount(l.RewardRange.Max),
			formatAmount(l.USDValue),
		)
	}
	return fmt.Sprintf("%s %s (~$%s)", l.RewardToken, formatAmount(l.RewardValue), formatAmount(l.USDValue))
}

// TrackingURL appends the utm_source parameter, joining with "&" when the URL
// already carries a query string.
func TrackingURL(raw string) string {
	if strings.Contains(raw, "?") {
		return raw + "&" + TrackingParam
	}
	return raw + "?" + TrackingParam
}

// FormatListingMessage renders the full Markdown notification for one listing.
func FormatListingMessage(l *model.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 *New %s on Superteam Earn!*\n\n", l.Type)
	fmt.Fprintf(&b, "*%s*\n", l.Title)
	fmt.Fprintf(&b, "From: %s\n", l.Sponsor)
	fmt.Fprintf(&b, "Reward: %s\n", RewardText(l))
	fmt.Fprintf(&b, "Deadline: %s\n\n", l.Deadline.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "[View Details](%s)", TrackingURL(l.URL))
	return b.String()
}

// formatAmount prints USD amounts without a trailing fraction when whole.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
