package api

import (
	"math"
	"net/url"
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wsqstar/ppage/internal/docs"
	"github.com/wsqstar/ppage/internal/graph"
	"github.com/wsqstar/ppage/internal/site"
)

var depthRe = regexp.MustCompile(`^(all|[0-9]+)$`)

type listQuery struct {
	Sort       string
	Collection string
	Folder     string
}

func parseListQuery(q url.Values) (listQuery, error) {
	lq := listQuery{
		Sort:       q.Get("sort"),
		Collection: q.Get("collection"),
		Folder:     q.Get("folder"),
	}
	return lq, validation.ValidateStruct(&lq,
		validation.Field(&lq.Sort, validation.In(
			string(docs.ModeOrder), string(docs.ModeTitle), string(docs.ModeDate), string(docs.ModePath),
		)),
	)
}

type graphQuery struct {
	Depth  string
	Width  float64
	Height float64
}

// depth converts the validated depth parameter.
func (g graphQuery) depth() int {
	switch g.Depth {
	case "":
		return site.UseDefaultDepth
	case "all":
		return graph.Unbounded
	}
	n, _ := strconv.Atoi(g.Depth)
	return n
}

func parseGraphQuery(q url.Values) (graphQuery, error) {
	gq := graphQuery{Depth: q.Get("depth")}
	var err error
	if gq.Width, err = parseDimension(q.Get("width")); err != nil {
		return gq, validation.Errors{"width": err}
	}
	if gq.Height, err = parseDimension(q.Get("height")); err != nil {
		return gq, validation.Errors{"height": err}
	}
	return gq, validation.ValidateStruct(&gq,
		validation.Field(&gq.Depth, validation.Match(depthRe).Error("must be a non-negative integer or \"all\"")),
		validation.Field(&gq.Width, validation.Min(0.0)),
		validation.Field(&gq.Height, validation.Min(0.0)),
	)
}

// parseDimension reads an optional canvas size. Inf and NaN are rejected.
func parseDimension(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, validation.NewError("validation_is_float", "must be a finite number")
	}
	return f, nil
}

func validateLanguage(lang string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	in := make([]any, len(allowed))
	for i, l := range allowed {
		in[i] = l
	}
	return validation.Errors{
		"lang": validation.Validate(lang, validation.In(in...)),
	}.Filter()
}
