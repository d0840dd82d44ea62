package apierrors

import (
	"task_analytics/pkg/translator"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

// JsonErr is the body of every failed response: {"error": "<message>"}.
type JsonErr struct {
	Message string `json:"error"`
}

func (e JsonErr) Error() string {
	return e.Message
}

// CreateError generates a JsonErr with a translated message.
func CreateError(msgKey string, lang string) JsonErr {
	return JsonErr{Message: GetTransErrorMsg(msgKey, lang)}
}

// GetTransErrorMsg retrieves the translated error message, falling back to
// English and then to the key itself.
func GetTransErrorMsg(msgKey string, lang string) string {
	if translator.Translator == nil {
		return msgKey
	}
	l := i18n.NewLocalizer(translator.Translator, lang, translator.LanguageEn)
	m := i18n.LocalizeConfig{}
	m.MessageID = msgKey
	msg, err := l.Localize(&m)
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", msgKey), zap.Error(err))
		return msgKey
	}
	return msg
}
