package i18n

import (
	"errors"

	"golang.org/x/text/language"

	"github.com/azulcreative/server/internal/domain"
)

// Message keys for user-facing errors.
const (
	KeyEmptyResult    = "generation.empty_result"
	KeyQuotaExhausted = "generation.quota_exhausted"
	KeyKeyRevoked     = "generation.key_revoked"
	KeyTransport      = "generation.transport"
	KeyUnauthorized   = "auth.unauthorized"
	KeyUserExists     = "auth.user_exists"
	KeyUserPending    = "auth.user_pending"
	KeyUserBlocked    = "auth.user_blocked"
	KeyConfigMissing  = "generation.config_missing"
	KeyNotFound       = "common.not_found"
	KeyInternal       = "common.internal"
	KeyBadRequest     = "common.bad_request"
)

var catalog = map[string]map[string]string{
	"en": {
		KeyEmptyResult:    "The AI did not produce an image. Try simplifying the prompt.",
		KeyQuotaExhausted: "Generation quota exhausted. Please try again later.",
		KeyKeyRevoked:     "The configured API key is invalid or was revoked.",
		KeyTransport:      "Connection error. Try using fewer reference images.",
		KeyConfigMissing:  "No API key is configured. Set up a Gemini API key to generate images.",
		KeyUnauthorized:   "Invalid username or password.",
		KeyUserExists:     "This username is already taken.",
		KeyUserPending:    "Your account is awaiting approval.",
		KeyUserBlocked:    "Your account has been blocked.",
		KeyNotFound:       "Resource not found.",
		KeyInternal:       "Something went wrong. Please try again.",
		KeyBadRequest:     "Invalid request.",
	},
	"pt-BR": {
		KeyEmptyResult:    "A IA não gerou uma imagem. Tente simplificar o prompt.",
		KeyQuotaExhausted: "Cota de geração esgotada. Tente novamente mais tarde.",
		KeyKeyRevoked:     "A chave de API configurada é inválida ou foi revogada.",
		KeyTransport:      "Erro de conexão. Tente usar menos referências.",
		KeyConfigMissing:  "Nenhuma chave de API configurada. Configure uma chave Gemini para gerar imagens.",
		KeyUnauthorized:   "Usuário ou senha inválidos.",
		KeyUserExists:     "Este nome de usuário já está em uso.",
		KeyUserPending:    "Sua conta está aguardando aprovação.",
		KeyUserBlocked:    "Sua conta foi bloqueada.",
		KeyNotFound:       "Recurso não encontrado.",
		KeyInternal:       "Algo deu errado. Tente novamente.",
		KeyBadRequest:     "Requisição inválida.",
	},
}

var matcher = language.NewMatcher([]language.Tag{
	language.BrazilianPortuguese,
	language.English,
})

// Resolve normalizes an arbitrary locale string to a supported catalog
// locale.
func Resolve(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "pt-BR"
	}
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return "en"
	}
	return "pt-BR"
}

// T returns the message for key in the given locale, falling back to
// pt-BR and then to the key itself.
func T(locale, key string) string {
	loc := Resolve(locale)
	if msg, ok := catalog[loc][key]; ok {
		return msg
	}
	if msg, ok := catalog["pt-BR"][key]; ok {
		return msg
	}
	return key
}

// KeyForError maps a domain error onto its message key.
func KeyForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyGenerationResult):
		return KeyEmptyResult
	case errors.Is(err, domain.ErrQuotaExhausted):
		return KeyQuotaExhausted
	case errors.Is(err, domain.ErrKeyRevoked):
		return KeyKeyRevoked
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrServiceOverloaded), errors.Is(err, domain.ErrRateLimited):
		return KeyTransport
	case errors.Is(err, domain.ErrConfigurationMissing):
		return KeyConfigMissing
	case errors.Is(err, domain.ErrUnauthorized):
		return KeyUnauthorized
	case errors.Is(err, domain.ErrUserExists):
		return KeyUserExists
	case errors.Is(err, domain.ErrUserPending):
		return KeyUserPending
	case errors.Is(err, domain.ErrUserBlocked):
		return KeyUserBlocked
	case errors.Is(err, domain.ErrNotFound):
		return KeyNotFound
	default:
		return KeyInternal
	}
}
