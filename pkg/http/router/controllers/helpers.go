package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"go.uber.org/zap"
)

const maxRequestBytes = 1 << 20

// requestValidator. validator with english messages and the place rule registered
type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *requestValidator {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	validate.RegisterStructValidation(placeStructLevelValidation, placeRequest{})
	_ = validate.RegisterTranslation("place", trans, func(tr ut.Translator) error {
		return tr.Add("place", "{0} must set exactly one of node_id, way_id or lat/lon", true)
	}, func(tr ut.Translator, fe validator.FieldError) string {
		t, _ := tr.T("place", fe.Field())
		return t
	})
	return &requestValidator{validate: validate, trans: trans}
}

func placeStructLevelValidation(sl validator.StructLevel) {
	p := sl.Current().Interface().(placeRequest)
	set := 0
	if p.NodeID != nil {
		set++
	}
	if p.WayID != nil {
		set++
	}
	if p.Lat != nil || p.Lon != nil {
		if p.Lat == nil || p.Lon == nil {
			sl.ReportError(p, "place", "Place", "place", "")
			return
		}
		set++
	}
	if set != 1 {
		sl.ReportError(p, "place", "Place", "place", "")
	}
}

func (rv *requestValidator) Struct(req interface{}) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}
	vv := translateError(err, rv.trans)
	vvString := []string{}
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	return fmt.Errorf("validation error: %v", vvString)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("body contains badly-formed JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

type responder struct {
	log *zap.Logger
}

func (rs responder) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	var resp errorResponse
	resp.Error.Code = http.StatusText(status)
	resp.Error.Message = message
	if err := writeJSON(w, status, resp, nil); err != nil {
		rs.log.Error("write error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (rs responder) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (rs responder) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusNotFound, err.Error())
}

func (rs responder) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.log.Error("server error", zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	rs.errorResponse(w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

// getStatusCode. maps the util error codes to http statuses
func (rs responder) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, util.ErrBadParamInput), errors.Is(err, util.ErrUnresolvablePlace):
		rs.BadRequestResponse(w, r, err)
	case errors.Is(err, util.ErrNotFound), errors.Is(err, util.ErrNoRoute):
		rs.NotFoundResponse(w, r, err)
	case errors.Is(err, util.ErrConflict):
		rs.errorResponse(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrPoolClosed):
		rs.errorResponse(w, r, http.StatusServiceUnavailable, err.Error())
	default:
		rs.ServerErrorResponse(w, r, err)
	}
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
