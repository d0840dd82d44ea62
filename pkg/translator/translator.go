package translator

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var bundled embed.FS

var Translator *i18n.Bundle

type Config struct {
	// TranslationFolder overrides the bundled files when set.
	TranslationFolder string
}

const (
	LanguageEn = "en"
	LanguageJa = "ja"
)

var SupportedLanguages = []string{LanguageEn, LanguageJa}

func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	var (
		fsys fs.FS
		dir  = "."
	)
	if cfg.TranslationFolder != "" {
		fsys = os.DirFS(cfg.TranslationFolder)
	} else {
		fsys = bundled
		dir = "translations"
	}

	lstFiles, err := fs.ReadDir(fsys, dir)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, f := range lstFiles {
		if f.IsDir() {
			continue
		}
		path := fmt.Sprintf("%s/%s", dir, f.Name())
		if _, err := Translator.LoadMessageFileFS(fsys, path); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
}
