package conversation

// Reply texts. Emphasis uses the *bold* convention of the WhatsApp renderer.

const affirmative = "ja"

const (
	msgGreeting  = "Hallo! 👋 Willkommen beim Bestellservice von %s."
	msgAskPickup = "Wann möchtest du deine Bestellung abholen? Frühestmöglich: *%s*. Antworte einfach mit einer Uhrzeit, z.B. *9:30*."

	msgTimeFormatHelp = "Das habe ich leider nicht verstanden. 🙈 Bitte schick mir eine Uhrzeit wie *8* oder *8:30*."
	msgTimeWindowHelp = "Zu dieser Uhrzeit haben wir leider geschlossen. Abholung ist zwischen *%s* und *%s* Uhr möglich."

	msgAskOrder      = "Super, Abholung am *%s*. 📝 Was möchtest du bestellen?"
	msgOrderTooShort = "Das war etwas knapp. 😅 Was genau möchtest du bestellen?"

	msgAskPayment  = "Wie möchtest du bezahlen? Antworte mit *PayPal* oder *vor Ort*."
	msgPaymentHelp = "Das habe ich nicht erkannt. Bitte antworte mit *PayPal* oder *vor Ort*."

	msgSummary     = "Deine Bestellung im Überblick:\n🕒 Abholung: *%s*\n🛒 %s\n💶 Zahlung: %s\n\nBitte bestätige mit *ja*."
	msgConfirmHelp = "Bitte bestätige die Bestellung mit *ja* oder schreib *abbrechen*, um neu anzufangen."

	msgConfirmed  = "Vielen Dank! ✅ Deine Bestellung ist eingegangen. Abholung: *%s*. Bis bald!"
	msgPayPalLink = "Du kannst vorab bequem per PayPal bezahlen: %s"

	msgCancelled = "Alles klar, die Bestellung wurde abgebrochen. Schreib *neu*, wenn du von vorn beginnen möchtest."

	msgDispatchFailed = "Entschuldige, da ist gerade etwas schiefgelaufen. 😔 Bitte versuch es gleich noch einmal oder schreib *neu*."
)
