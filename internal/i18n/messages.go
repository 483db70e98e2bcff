package i18n

var catalog = map[Locale]map[string]string{
	French: {
		"price.on_quote": "Sur devis",

		"banner.aria":      "Bandeau de consentement aux cookies",
		"banner.title":     "🍪 Gestion des cookies",
		"banner.text":      "Nous utilisons des cookies pour garantir le bon fonctionnement du site et pour améliorer votre expérience. Certains cookies nécessitent votre consentement.",
		"banner.more":      "En savoir plus",
		"banner.accept":    "✓ Accepter tout",
		"banner.accept_al": "Accepter tous les cookies",
		"banner.refuse":    "✕ Refuser tout",
		"banner.refuse_al": "Refuser les cookies non essentiels",
		"banner.custom":    "⚙ Personnaliser",
		"banner.custom_al": "Personnaliser les préférences",

		"modal.aria":            "Personnalisation des cookies",
		"modal.title":           "Personnaliser vos préférences",
		"modal.essential":       "Cookies essentiels",
		"modal.required":        "Requis",
		"modal.essential_desc":  "Ces cookies sont nécessaires au fonctionnement du site et ne peuvent pas être désactivés. Ils incluent les cookies de session et de sécurité.",
		"modal.analytics":       "Cookies analytiques",
		"modal.analytics_desc":  "Ces cookies nous permettent de mesurer l'audience et d'améliorer les performances du site. Toutes les données sont anonymisées.",
		"modal.stripe":          "Cookies Stripe (Paiement)",
		"modal.stripe_desc":     "Cookies utilisés par Stripe pour sécuriser les paiements et prévenir la fraude.",
		"modal.stripe_required": "Requis pour effectuer un paiement.",
		"modal.cancel":          "Annuler",
		"modal.save":            "Enregistrer mes préférences",

		"site.name":         "Pièces Méthanisation Pro",
		"site.cta":          "Déposer une annonce",
		"site.listings":     "Annonces",
		"site.contact":      "Contact",
		"site.cookies":      "Cookies",
		"site.legal":        "Mentions légales",
		"site.privacy":      "Confidentialité",
		"site.terms":        "CGV",
		"site.manage":       "Gérer les cookies",
		"site.revoke":       "Retirer mon consentement",
		"site.no_results":   "Aucune annonce ne correspond à votre recherche.",
		"site.search":       "Rechercher",
		"site.location":     "Localisation",
		"site.all":          "Toutes",
		"site.featured":     "Annonces à la une",
		"site.count":        "annonces en ligne",
		"site.not_found":    "Annonce introuvable",
		"site.create":       "Déposer une annonce",
		"site.create_text":  "Publiez votre équipement ou votre pièce détachée en quelques minutes.",
		"site.contact_text": "Une question ? Écrivez-nous, nous répondons sous 48 heures.",
		"site.cookies_text": "Ce site utilise des cookies essentiels, analytiques et de paiement. Vous pouvez modifier vos choix à tout moment.",
		"site.category":     "Catégorie",
		"site.condition":    "État",
		"site.price":        "Prix",
		"site.legal_text":   "Pièces Méthanisation Pro est édité par une société par actions simplifiée immatriculée en France. Hébergement assuré dans l'Union européenne.",
		"site.privacy_text": "Nous ne collectons que les données nécessaires à la publication des annonces et au traitement des paiements. Vous disposez d'un droit d'accès, de rectification et d'effacement.",
		"site.terms_text":   "La publication d'une annonce est payante et vaut acceptation des présentes conditions générales de vente.",

		"contact.title":           "Contactez-nous",
		"contact.name":            "Nom",
		"contact.company":         "Société",
		"contact.email":           "Email",
		"contact.phone":           "Téléphone",
		"contact.subject":         "Sujet",
		"contact.subject_listing": "Question sur une annonce",
		"contact.subject_posting": "Dépôt d'une annonce",
		"contact.subject_payment": "Paiement",
		"contact.subject_other":   "Autre",
		"contact.reference":       "Référence annonce",
		"contact.message":         "Message",
		"contact.send":            "Envoyer",
		"contact.sent_title":      "Message envoyé !",
		"contact.sent_text":       "Votre message a été envoyé avec succès. Nous vous répondrons sous 48 heures.",
		"contact.invalid":         "Merci de vérifier les champs du formulaire.",
		"contact.failed":          "L'envoi a échoué, merci de réessayer plus tard.",
	},
	English: {
		"price.on_quote": "On quote",

		"banner.aria":      "Cookie consent banner",
		"banner.title":     "🍪 Cookie settings",
		"banner.text":      "We use cookies to make the site work and to improve your experience. Some cookies require your consent.",
		"banner.more":      "Learn more",
		"banner.accept":    "✓ Accept all",
		"banner.accept_al": "Accept all cookies",
		"banner.refuse":    "✕ Refuse all",
		"banner.refuse_al": "Refuse non-essential cookies",
		"banner.custom":    "⚙ Customize",
		"banner.custom_al": "Customize preferences",

		"modal.aria":            "Cookie customization",
		"modal.title":           "Customize your preferences",
		"modal.essential":       "Essential cookies",
		"modal.required":        "Required",
		"modal.essential_desc":  "These cookies are needed for the site to work and cannot be disabled. They include session and security cookies.",
		"modal.analytics":       "Analytics cookies",
		"modal.analytics_desc":  "These cookies let us measure traffic and improve site performance. All data is anonymized.",
		"modal.stripe":          "Stripe cookies (Payment)",
		"modal.stripe_desc":     "Cookies used by Stripe to secure payments and prevent fraud.",
		"modal.stripe_required": "Required to make a payment.",
		"modal.cancel":          "Cancel",
		"modal.save":            "Save my preferences",

		"site.name":         "Pièces Méthanisation Pro",
		"site.cta":          "Post a listing",
		"site.listings":     "Listings",
		"site.contact":      "Contact",
		"site.cookies":      "Cookies",
		"site.legal":        "Legal notice",
		"site.privacy":      "Privacy",
		"site.terms":        "Terms of sale",
		"site.manage":       "Manage cookies",
		"site.revoke":       "Withdraw my consent",
		"site.no_results":   "No listing matches your search.",
		"site.search":       "Search",
		"site.location":     "Location",
		"site.all":          "All",
		"site.featured":     "Featured listings",
		"site.count":        "listings online",
		"site.not_found":    "Listing not found",
		"site.create":       "Post a listing",
		"site.create_text":  "Publish your equipment or spare part in a few minutes.",
		"site.contact_text": "A question? Write to us, we answer within 48 hours.",
		"site.cookies_text": "This site uses essential, analytics and payment cookies. You can change your choices at any time.",
		"site.category":     "Category",
		"site.condition":    "Condition",
		"site.price":        "Price",
		"site.legal_text":   "Pièces Méthanisation Pro is published by a simplified joint-stock company registered in France. Hosting is provided within the European Union.",
		"site.privacy_text": "We only collect the data needed to publish listings and process payments. You have a right of access, rectification and erasure.",
		"site.terms_text":   "Publishing a listing is a paid service and implies acceptance of these terms of sale.",

		"contact.title":           "Contact us",
		"contact.name":            "Name",
		"contact.company":         "Company",
		"contact.email":           "Email",
		"contact.phone":           "Phone",
		"contact.subject":         "Subject",
		"contact.subject_listing": "Question about a listing",
		"contact.subject_posting": "Posting a listing",
		"contact.subject_payment": "Payment",
		"contact.subject_other":   "Other",
		"contact.reference":       "Listing reference",
		"contact.message":         "Message",
		"contact.send":            "Send",
		"contact.sent_title":      "Message sent!",
		"contact.sent_text":       "Your message was sent successfully. We will answer within 48 hours.",
		"contact.invalid":         "Please check the form fields.",
		"contact.failed":          "Sending failed, please try again later.",
	},
}

// T returns the message for key in loc, falling back to French and then to the key.
func T(loc Locale, key string) string {
	if msg, ok := catalog[loc][key]; ok {
		return msg
	}
	if msg, ok := catalog[Default][key]; ok {
		return msg
	}
	return key
}

// Translator binds T to one locale, for templates.
func Translator(loc Locale) func(key string) string {
	return func(key string) string { return T(loc, key) }
}
