package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/lifeapp/lifebot/internal/lifeapp"
	"github.com/lifeapp/lifebot/internal/telegram"
)

// parseCommand extracts a bot command name from message text, handling the
// /command@BotName form used in group chats.
func parseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.Fields(text)[0]
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i]
	}
	return strings.ToLower(name), true
}

func (b *Bot) handleCommand(ctx context.Context, conv *Conversation, msg *telegram.Message, name string) {
	switch name {
	case "/start":
		b.send(ctx, conv.ChatID, startText(msg.From), "Markdown", nil)
	case "/help":
		b.send(ctx, conv.ChatID, helpText, "Markdown", nil)
	case "/link":
		b.send(ctx, conv.ChatID, linkText(msg.From), "Markdown", nil)
	case "/status":
		b.statusCommand(ctx, conv.ChatID, msg.From)
	case "/products":
		b.productsCommand(ctx, conv.ChatID, msg.From)
	case "/cancel":
		b.step(ctx, conv, msg, Input{Cancel: true})
	default:
		b.send(ctx, conv.ChatID, "Unknown command. Use /help to see what I can do.", "", nil)
	}
}

func startText(user *telegram.User) string {
	return fmt.Sprintf(`🌱 *Welcome to Life App Lifecycle Tracker!*

Hi %s! I help you track your product lifecycle events.

*What I can do:*
📸 Analyze product photos
📝 Process lifecycle events (broken, repaired, sold, etc.)
🔗 Connect with your Life app account
📊 Track sustainability metrics

*To get started:*
1. Link your account: /link
2. Send me a photo of your product + description
3. I'll automatically track the lifecycle event!

*Commands:*
/help - Show this help message
/link - Link your Telegram to Life app
/status - Check your account status
/products - See your tracked products
/cancel - Cancel current operation

Ready to start tracking? Send me a photo! 📸`, user.FirstName)
}

const helpText = `🤖 *Life App Bot Help*

*How to use:*
1. Send a photo of your product with a description
2. I'll identify the product and understand what happened
3. The event gets recorded in your Life app!

*Example messages:*
📸 + "My laptop is broken" → Records malfunction
📸 + "Fixed my headphones" → Records repair
📸 + "Sold my phone" → Records sale
📸 + "This vacuum works great!" → Records positive update

*Supported events:*
🔴 Malfunction, broken, stopped working
🔧 Repaired, fixed, serviced
🛒 Purchased, bought, acquired
♻️ Recycled, disposed, thrown away
🎁 Sold, gifted, donated
⬆️ Upgraded, modified, improved
🧽 Cleaned, maintained
✅ Working well, no issues

*Commands:*
/start - Welcome message
/help - This help
/link - Link account
/status - Account status
/products - Your products
/cancel - Cancel operation

Need help? Contact support in the Life app! 💚`

func linkText(user *telegram.User) string {
	username := user.Username
	if username == "" {
		username = "No username"
	}
	return fmt.Sprintf(`🔗 *Link Your Life App Account*

To connect this Telegram account with your Life app:

*Your Telegram Info:*
• ID: `+"`%s`"+`
• Username: @%s
• Name: %s %s

*Steps to link:*
1. Open the Life app on your browser
2. Go to Settings → Telegram Integration
3. Enter your Telegram ID: `+"`%s`"+`
4. Click "Link Account"
5. Return here and use /status to verify

*Why link?*
✅ Track lifecycle events automatically
✅ Match products from your tracking list
✅ Sync data with your Life app dashboard
✅ Get personalized insights

Once linked, just send photos + descriptions! 📸`,
		telegram.FormatUserID(user.ID), username, user.FirstName, user.LastName,
		telegram.FormatUserID(user.ID))
}

func (b *Bot) statusCommand(ctx context.Context, chatID int64, user *telegram.User) {
	telegramID := telegram.FormatUserID(user.ID)

	info, err := b.api.Status(ctx, telegramID)
	if err != nil {
		log.Printf("chat %d: checking status: %v", chatID, err)
		info = nil
	}

	if info == nil || !info.Linked {
		b.send(ctx, chatID, fmt.Sprintf(`❌ *Account Status: Not Linked*

Your Telegram account is not yet connected to the Life app.

*To link your account:*
1. Use /link for instructions
2. Go to Life app → Settings → Telegram
3. Enter your ID: `+"`%s`"+`

Need help? Check /help for more info!`, telegramID), "Markdown", nil)
		return
	}

	name := info.User.Name
	if name == "" {
		name = "Unknown"
	}
	b.send(ctx, chatID, fmt.Sprintf(`✅ *Account Status: Linked*

*Your Info:*
• Telegram ID: `+"`%s`"+`
• Life App User: %s
• Tracked Products: %d
• Linked Since: %s

*Recent Activity:*
%s

🎉 You're all set! Send me photos to track events.`,
		telegramID, name, info.Stats.TrackedProducts, info.User.LinkedAt,
		formatRecentActivity(info.RecentActivity)), "Markdown", nil)
}

func (b *Bot) productsCommand(ctx context.Context, chatID int64, user *telegram.User) {
	telegramID := telegram.FormatUserID(user.ID)

	info, err := b.api.Products(ctx, telegramID)
	if err != nil {
		log.Printf("chat %d: fetching products: %v", chatID, err)
		info = nil
	}

	if info == nil || !info.Linked {
		b.send(ctx, chatID, "❌ Account not linked. Use /link to connect your account first!", "", nil)
		return
	}

	if len(info.Products) == 0 {
		b.send(ctx, chatID, `📦 *No Products Tracked Yet*

You haven't tracked any products in the Life app yet.

*To start tracking:*
1. Visit Life app in your browser
2. Use the browser extension or manual tracking
3. Come back here to report lifecycle events!

🌱 Start your sustainability journey today!`, "Markdown", nil)
		return
	}

	products := info.Products
	if len(products) > 10 {
		products = products[:10]
	}
	var list strings.Builder
	for _, p := range products {
		fmt.Fprintf(&list, "• %s (Score: %.0f/100)\n", p.Name, p.EcoScore)
	}

	b.send(ctx, chatID, fmt.Sprintf(`📦 *Your Tracked Products*

%s
*Total Products:* %d
*Average Eco Score:* %.0f/100

💡 Send me photos of these products with descriptions to track lifecycle events!`,
		strings.TrimRight(list.String(), "\n"), len(info.Products), info.Stats.AvgEcoScore), "Markdown", nil)
}

// formatRecentActivity renders up to three recent lifecycle steps.
func formatRecentActivity(activities []lifeapp.Activity) string {
	if len(activities) == 0 {
		return "No recent activity"
	}
	if len(activities) > 3 {
		activities = activities[:3]
	}
	lines := make([]string, 0, len(activities))
	for _, a := range activities {
		icon := a.StepIcon
		if icon == "" {
			icon = "📝"
		}
		product := a.ProductName
		if product == "" {
			product = "Product"
		}
		label := a.StepLabel
		if label == "" {
			label = "Event"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s", icon, label, product))
	}
	return strings.Join(lines, "\n")
}
