package classifier

// TaxonomyEntry is a built-in category definition shipped with the
// application, independent of any user's custom categories.
type TaxonomyEntry struct {
	Name            string
	Keywords        []string
	SenderPatterns  []string
	Color           string
	Icon            string
	ImportanceBoost bool
}

// DefaultCategoryName is seeded for accounts that own no category yet
const DefaultCategoryName = "Général"

// DefaultCategoryColor and DefaultCategoryIcon style the seeded category
const (
	DefaultCategoryColor = "#6B7280"
	DefaultCategoryIcon  = "folder"
)

// Taxonomy is the fixed set of built-in categories. Keywords mix French and
// English because inboxes rarely stick to one language.
var Taxonomy = []TaxonomyEntry{
	{
		Name:            "Factures",
		Keywords:        []string{"facture", "invoice", "paiement", "payment", "montant", "échéance", "reçu", "receipt", "abonnement", "billing"},
		SenderPatterns:  []string{"billing", "invoice", "facturation", "edf", "engie", "orange", "sfr", "free"},
		Color:           "#F59E0B",
		Icon:            "file-text",
		ImportanceBoost: true,
	},
	{
		Name:            "Banque",
		Keywords:        []string{"banque", "bank", "compte", "virement", "solde", "carte", "crédit", "relevé", "statement", "transaction"},
		SenderPatterns:  []string{"banque", "bank", "paypal", "revolut", "boursorama", "creditagricole", "bnpparibas"},
		Color:           "#10B981",
		Icon:            "credit-card",
		ImportanceBoost: true,
	},
	{
		Name:            "Travail",
		Keywords:        []string{"réunion", "meeting", "projet", "project", "deadline", "rapport", "report", "équipe", "team", "client", "planning"},
		SenderPatterns:  []string{"slack", "atlassian", "jira", "github", "gitlab", "notion", "asana"},
		Color:           "#3B82F6",
		Icon:            "briefcase",
		ImportanceBoost: true,
	},
	{
		Name:           "Voyage",
		Keywords:       []string{"vol", "flight", "réservation", "booking", "hôtel", "hotel", "train", "billet", "ticket", "itinéraire", "voyage", "trip"},
		SenderPatterns: []string{"booking", "airbnb", "sncf", "airfrance", "expedia", "ryanair", "trainline"},
		Color:          "#8B5CF6",
		Icon:           "plane",
	},
	{
		Name:           "Shopping",
		Keywords:       []string{"commande", "order", "livraison", "delivery", "colis", "parcel", "expédition", "shipping", "panier", "achat", "purchase"},
		SenderPatterns: []string{"amazon", "cdiscount", "fnac", "ebay", "aliexpress", "zalando", "vinted"},
		Color:          "#EC4899",
		Icon:           "shopping-bag",
	},
	{
		Name:           "Newsletter",
		Keywords:       []string{"newsletter", "désabonner", "unsubscribe", "hebdomadaire", "weekly", "digest", "édition", "actualités", "news"},
		SenderPatterns: []string{"newsletter", "mailchimp", "substack", "news", "info"},
		Color:          "#6366F1",
		Icon:           "mail",
	},
	{
		Name:            "Sécurité",
		Keywords:        []string{"sécurité", "security", "password", "vérification", "verification", "connexion", "login", "alerte", "alert", "authentification", "code"},
		SenderPatterns:  []string{"security", "no-reply", "accounts", "alert"},
		Color:           "#EF4444",
		Icon:            "shield",
		ImportanceBoost: true,
	},
	{
		Name:           "Social",
		Keywords:       []string{"invitation", "ami", "friend", "message", "commentaire", "comment", "mention", "abonné", "follower", "notification"},
		SenderPatterns: []string{"facebook", "instagram", "linkedin", "twitter", "tiktok", "discord", "reddit"},
		Color:          "#14B8A6",
		Icon:           "users",
	},
}

// TaxonomyByName returns the built-in entry with the given name, or nil
func TaxonomyByName(name string) *TaxonomyEntry {
	for i := range Taxonomy {
		if Taxonomy[i].Name == name {
			return &Taxonomy[i]
		}
	}
	return nil
}
