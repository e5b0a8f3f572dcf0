package render

import (
	"encoding/json"
	"net/http"

	"creditrust/handler/codes"

	"github.com/sirupsen/logrus"
	"github.com/twitchtv/twirp"
)

type H map[string]interface{}

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Hint string `json:"hint,omitempty"`
}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	JSONStatus(w, http.StatusOK, v)
}

// JSONStatus render with json and status
func JSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Error write err with the http status of its code
func Error(w http.ResponseWriter, err error) {
	twerr := codes.From(err)

	resp := errorResponse{
		Code: codes.Get(twerr),
		Msg:  twerr.Msg(),
	}

	if reason := twerr.Meta("reason"); reason != "" {
		resp.Hint = reason
	} else if HintInternalErrors && twerr.Code() == twirp.Internal {
		resp.Hint = err.Error()
	}

	status := twirp.ServerHTTPStatusFromErrorCode(twerr.Code())
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Errorln("request failed")
	}

	JSONStatus(w, status, resp)
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.InvalidArgumentError("params", err.Error()))
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.NotFoundError(err.Error()))
}
