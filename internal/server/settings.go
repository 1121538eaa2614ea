package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kode4food/flowdesk/internal/i18n"
	"github.com/kode4food/flowdesk/internal/settings"
	"github.com/kode4food/flowdesk/pkg/api"
	"github.com/kode4food/flowdesk/pkg/log"
)

var (
	ErrUnknownSetting  = errors.New("unknown setting")
	ErrSettingNotFound = errors.New("setting not found")
	ErrEmptyValue      = errors.New("setting value is required")
)

func (s *Server) listSettings(c *gin.Context) {
	values, err := s.snapshot(c)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, api.SettingsResponse{Settings: values})
}

func (s *Server) getSetting(c *gin.Context) {
	key := settings.Key(c.Param("key"))
	if !settings.IsKnown(key) {
		writeError(c, http.StatusNotFound,
			fmt.Errorf("%w: %s", ErrUnknownSetting, key))
		return
	}

	v, ok, err := s.settings.Get(c.Request.Context(), key)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(c, http.StatusNotFound,
			fmt.Errorf("%w: %s", ErrSettingNotFound, key))
		return
	}
	c.JSON(http.StatusOK, api.SettingResponse{Key: string(key), Value: v})
}

func (s *Server) putSetting(c *gin.Context) {
	key := settings.Key(c.Param("key"))
	if !settings.IsKnown(key) {
		writeError(c, http.StatusNotFound,
			fmt.Errorf("%w: %s", ErrUnknownSetting, key))
		return
	}

	var req api.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if req.Value == "" {
		writeError(c, http.StatusBadRequest, ErrEmptyValue)
		return
	}

	ctx := c.Request.Context()
	var err error
	if key == settings.Language {
		err = s.localizer.SetLanguage(ctx, req.Value)
	} else {
		err = s.settings.Set(ctx, key, req.Value)
	}

	switch {
	case errors.Is(err, i18n.ErrUnsupportedLanguage):
		writeError(c, http.StatusBadRequest, err)
	case err != nil:
		writeError(c, http.StatusInternalServerError, err)
	default:
		c.JSON(http.StatusOK, api.SettingResponse{
			Key:   string(key),
			Value: req.Value,
		})
	}
}

func (s *Server) snapshot(c *gin.Context) (map[string]string, error) {
	res := map[string]string{}
	for _, key := range settings.Keys {
		v, ok, err := s.settings.Get(c.Request.Context(), key)
		if err != nil {
			return nil, err
		}
		if ok {
			res[string(key)] = v
		}
	}
	return res, nil
}

func writeError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("Settings request failed",
			log.Path(c.Request.URL.Path),
			log.Error(err))
	}
	c.JSON(status, api.ErrorResponse{Message: err.Error()})
}
