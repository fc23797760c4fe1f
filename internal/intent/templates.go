package intent

import (
	"fmt"
	"strings"
)

func comboSiteConfirmed(site string) string {
	return fmt.Sprintf("🔥 Weekend Combo locked in for %s!\n\n"+
		"Here is what I’ll do next:\n"+
		"• Apply 15%% Weekend Combo discount\n"+
		"• Set monument: %s\n"+
		"• Prepare a quick ticket summary for you\n\n"+
		"Tell me how many tickets you need (for example, “2 Indian, 1 foreign”) and I’ll show you the final price.",
		site, site)
}

func comboSiteWeekday(site string) string {
	return fmt.Sprintf("Weekend Combo is only valid on Saturdays and Sundays.\n"+
		"You can still book tickets for %s at regular prices today, and use Family Pack or Student discounts if they apply.",
		site)
}

func comboPrompt(siteNames []string) string {
	return "You’re going for the Weekend Combo (15% off on 2+ monuments). 🎉\n\n" +
		"Which monument would you like to include first? For example: " + strings.Join(siteNames, siteListJoint) + "."
}

const comboWeekday = "Weekend Combo is only available on Saturdays and Sundays.\n" +
	"You can still get:\n" +
	"• Family Pack: Save up to ₹300 on 4+ tickets\n" +
	"• Student Discount: Extra 10% off with valid ID."

func siteDetail(site string) string {
	return fmt.Sprintf("Here are the details for %s.\n"+
		"You can tap Book Now in the card when you’re ready to continue.", site)
}

func bookingPrompt(siteNames []string) string {
	return "Got it, you want to book tickets. Which site would you like? For example: " +
		strings.Join(siteNames, siteListJoint) + ". You can also click one of the options shown."
}

// TimingsText is the static opening-hours reply.
const TimingsText = "General timings:\n" +
	"• Most ASI monuments: 9:00 AM – 5:30 PM\n" +
	"• Taj Mahal: 6:00 AM – 7:00 PM (closed Fridays)\n" +
	"Type a specific site name if you want exact timings."

// PopularSitesText is marketing copy, not a catalog query. Red Fort has no
// price data and stays listed anyway.
const PopularSitesText = "Popular heritage sites:\n" +
	"• Taj Mahal, Agra\n" +
	"• Qutub Minar, Delhi\n" +
	"• Hawa Mahal, Jaipur\n" +
	"• Red Fort, Delhi\n" +
	"Tell me which one you want to explore or book."

// OffersText is the static offers reply.
const OffersText = "Current special offers:\n" +
	"• Weekend Combo: 15% off on 2+ monuments (Sat–Sun only)\n" +
	"• Family Pack: Save up to ₹300 on 4+ tickets\n" +
	"• Student Discount: Extra 10% off with valid ID.\n" +
	"You can say, “Book weekend combo for Qutub Minar”."

func fallback(text string) string {
	return fmt.Sprintf("You said: \"%s\". Ask about sites or say \"book tickets\" to start.", text)
}
