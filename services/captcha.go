package services

import (
	"context"
	"fmt"

	recaptcha "cloud.google.com/go/recaptchaenterprise/v2/apiv1"
	"cloud.google.com/go/recaptchaenterprise/v2/apiv1/recaptchaenterprisepb"
	"google.golang.org/api/option"

	"teamhub/config"
)

type AssessmentResult struct {
	Valid   bool
	Score   float32
	Action  string
	Reasons []string
	Invalid string
}

type CaptchaVerifier interface {
	Assess(ctx context.Context, token, action, userIP, userAgent string) (*AssessmentResult, error)
	MinScore() float32
}

type RecaptchaVerifier struct {
	client   *recaptcha.Client
	project  string
	siteKey  string
	minScore float32
}

func NewRecaptchaVerifier(ctx context.Context, cfg config.CaptchaConfig) (*RecaptchaVerifier, error) {
	var opts []option.ClientOption
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	}
	client, err := recaptcha.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create reCAPTCHA client: %w", err)
	}
	return &RecaptchaVerifier{
		client:   client,
		project:  cfg.ProjectID,
		siteKey:  cfg.SiteKey,
		minScore: cfg.MinScore,
	}, nil
}

func (v *RecaptchaVerifier) Close() error {
	return v.client.Close()
}

func (v *RecaptchaVerifier) MinScore() float32 {
	return v.minScore
}

func (v *RecaptchaVerifier) Assess(ctx context.Context, token, action, userIP, userAgent string) (*AssessmentResult, error) {
	req := &recaptchaenterprisepb.CreateAssessmentRequest{
		Parent: fmt.Sprintf("projects/%s", v.project),
		Assessment: &recaptchaenterprisepb.Assessment{
			Event: &recaptchaenterprisepb.Event{
				Token:         token,
				SiteKey:       v.siteKey,
				UserIpAddress: userIP,
				UserAgent:     userAgent,
			},
		},
	}

	response, err := v.client.CreateAssessment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	props := response.GetTokenProperties()
	if props == nil || !props.GetValid() {
		result := &AssessmentResult{Invalid: "token properties missing"}
		if props != nil {
			result.Invalid = props.GetInvalidReason().String()
		}
		return result, nil
	}
	if action != "" && props.GetAction() != action {
		return &AssessmentResult{Action: props.GetAction(), Invalid: "action mismatch"}, nil
	}

	result := &AssessmentResult{Valid: true, Action: props.GetAction()}
	if risk := response.GetRiskAnalysis(); risk != nil {
		result.Score = risk.GetScore()
		for _, reason := range risk.GetReasons() {
			result.Reasons = append(result.Reasons, reason.String())
		}
	}
	return result, nil
}

// Passed reports whether result is valid and scores at least the verifier's minimum.
func Passed(v CaptchaVerifier, result *AssessmentResult) bool {
	return result != nil && result.Valid && result.Score >= v.MinScore()
}
