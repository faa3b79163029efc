package handlers

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"coinshop/internal/provider"
	"coinshop/internal/purchase"
)

// formPostPage submits the gateway fields as soon as the page loads.
var formPostPage = template.Must(template.New("form_post").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<form method="{{.Method}}" action="{{.URL}}">
{{- range $name, $values := .Fields}}{{range $values}}
<input type="hidden" name="{{$name}}" value="{{.}}">
{{- end}}{{end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

var landingPage = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Payment {{.Status}}</title></head>
<body>
{{- if .Found}}
<h1>Order {{.OrderID}}: {{.Status}}</h1>
{{- if .ErrorMessage}}<p>{{.ErrorMessage}}</p>{{end}}
{{- else}}
<h1>Unknown order</h1>
{{- end}}
<p>Balance: {{.Balance}} coins</p>
</body>
</html>
`))

type landingView struct {
	OrderID      string
	Found        bool
	Status       purchase.Status
	ErrorMessage string
	Balance      int64
}

func renderFormPost(w http.ResponseWriter, r *http.Request, nav *provider.Navigation) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := formPostPage.Execute(w, nav); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("layer", "handler").Msg("render form post")
	}
}

func renderLanding(w http.ResponseWriter, r *http.Request, v landingView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := landingPage.Execute(w, v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("layer", "handler").Msg("render landing")
	}
}
