package studio

import (
	"context"
	"net/url"
	"strconv"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/payload"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// Share link query parameters.
const (
	paramType          = "type"
	paramData          = "data"
	paramForeground    = "fg"
	paramBackground    = "bg"
	paramSize          = "size"
	paramPattern       = "pattern"
	paramGradient      = "gradient"
	paramGradientColor = "gradientColor"
)

// ShareLink encodes p and c into a link based on base. Any query already
// on base is replaced.
func ShareLink(base string, p payload.Payload, c Customization) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	gradient := "0"
	if c.Gradient {
		gradient = "1"
	}

	q := url.Values{}
	q.Set(paramType, string(p.Kind))
	q.Set(paramData, p.Data)
	q.Set(paramForeground, c.Foreground)
	q.Set(paramBackground, c.Background)
	q.Set(paramSize, strconv.Itoa(c.Size))
	q.Set(paramPattern, c.Pattern)
	q.Set(paramGradient, gradient)
	q.Set(paramGradientColor, c.GradientColor)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// ParseShareQuery turns share link parameters back into a Request. Absent
// customization parameters are left for Normalize to default.
func ParseShareQuery(q url.Values) (Request, error) {
	kind := q.Get(paramType)
	if kind == "" {
		return Request{}, &payload.ValidationError{Field: paramType, Message: "missing"}
	}
	data := q.Get(paramData)
	if data == "" {
		return Request{}, &payload.ValidationError{Field: paramData, Message: "missing"}
	}

	var c Customization
	c.Foreground = q.Get(paramForeground)
	c.Background = q.Get(paramBackground)
	c.Pattern = q.Get(paramPattern)
	c.GradientColor = q.Get(paramGradientColor)
	c.Gradient = q.Get(paramGradient) == "1"
	if v := q.Get(paramSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Size = n
		}
	}

	return Request{Kind: payload.Kind(kind), Data: data, Customization: c}, nil
}

// ShareLink resolves req and returns a link that regenerates it.
func (s *Service) ShareLink(ctx context.Context, base string, req Request) (string, error) {
	p, err := s.resolvePayload(ctx, req)
	if err != nil {
		return "", err
	}
	custom := req.Customization.Normalize(s.opts)

	link, err := ShareLink(base, p, custom)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to build share link", logger.LoggerInfo{
			ContextFunction: constant.CtxShareLink,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidPayload,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
		})
		return "", err
	}

	logger.CtxDebug(ctx, "Share link built", logger.LoggerInfo{
		ContextFunction: constant.CtxShareLink,
		Data: map[string]interface{}{
			constant.DataKind: string(p.Kind),
		},
	})
	return link, nil
}
