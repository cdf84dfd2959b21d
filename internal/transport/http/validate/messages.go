package validate

// Client-facing messages keyed by domain error code.

var messagesFR = map[string]string{
	"invalid_json":         "Corps JSON invalide",
	"missing_field":        "Champ obligatoire manquant",
	"invalid_field":        "Champ invalide",
	"validation_failed":    "La validation de la requête a échoué",
	"invalid_credentials":  "Email ou mot de passe incorrect",
	"token_missing":        "Non authentifié",
	"token_invalid":        "Impossible de valider les identifiants",
	"token_expired":        "Le jeton a expiré",
	"forbidden":            "Accès refusé",
	"insufficient_role":    "L'utilisateur n'a pas les privilèges suffisants",
	"inactive_user":        "Utilisateur inactif",
	"user_not_found":       "Utilisateur introuvable",
	"email_already_exists": "Cet email est déjà utilisé par un autre utilisateur",
	"rate_limited":         "Trop de requêtes",
	"db_unavailable":       "Base de données indisponible",
	"hash_failed":          "Erreur interne",
	"token_sign_failed":    "Erreur interne",
	"internal_error":       "Erreur interne",
}

var messagesEN = map[string]string{
	"invalid_json":         "Invalid JSON body",
	"missing_field":        "Missing required field",
	"invalid_field":        "Invalid field",
	"validation_failed":    "Request validation failed",
	"invalid_credentials":  "Incorrect email or password",
	"token_missing":        "Not authenticated",
	"token_invalid":        "Could not validate credentials",
	"token_expired":        "Token has expired",
	"forbidden":            "Forbidden",
	"insufficient_role":    "The user doesn't have enough privileges",
	"inactive_user":        "Inactive user",
	"user_not_found":       "User not found",
	"email_already_exists": "This email is already used by another user",
	"rate_limited":         "Too many requests",
	"db_unavailable":       "Database unavailable",
	"hash_failed":          "Internal error",
	"token_sign_failed":    "Internal error",
	"internal_error":       "Internal error",
}
