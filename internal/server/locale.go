package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kode4food/flowdesk/internal/view"
	"github.com/kode4food/flowdesk/pkg/api"
)

func (s *Server) listLanguages(c *gin.Context) {
	ctx := c.Request.Context()
	sel := view.NewLanguageSelector(s.localizer)
	opts := sel.Options(ctx)

	res := api.LanguagesResponse{
		Languages: make([]api.LanguageOption, 0, len(opts)),
		Active:    sel.Current(ctx).Code,
	}
	for _, o := range opts {
		res.Languages = append(res.Languages, api.LanguageOption{
			Code:   o.Code,
			Name:   o.Name,
			Flag:   o.Flag,
			Active: o.Active,
		})
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getTranslations(c *gin.Context) {
	store := s.localizer.Store()
	lang := c.Param("lang")
	if lang == "" {
		lang = s.localizer.Language(c.Request.Context())
	}
	lang = store.Resolve(lang)

	msgs := store.Messages(lang)
	res := api.TranslationsResponse{
		Language: lang,
		Messages: make(map[string]string, len(msgs)),
	}
	for k, v := range msgs {
		res.Messages[string(k)] = v
	}
	c.JSON(http.StatusOK, res)
}
