package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board whose markup is known.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformRules struct {
	hosts   []string
	content []string
	noise   []string
}

var platforms = map[Platform]platformRules{
	PlatformGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--container", ".application--form", "#application", ".job__header .job__tags", ".btn--apply", ".job-alert"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".postings-btn-wrapper", ".application-page", ".main-footer"},
	},
	PlatformWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobDescription']", ".gwt-HTML", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", "[data-automation-id='similarJobs']"},
	},
	PlatformAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='_descriptionText']", "[class*='_description']", "main"},
		noise:   []string{"[class*='_applicationForm']"},
	},
}

// jobPostingSelectors cover generic career pages.
var jobPostingSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// DetectPlatform identifies the job board serving rawURL.
func DetectPlatform(rawURL string) Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(u.Hostname())
	for p, rules := range platforms {
		for _, h := range rules.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p
			}
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns the description selectors for p, most specific first.
func (p Platform) ContentSelectors() []string {
	if rules, ok := platforms[p]; ok {
		return rules.content
	}
	return jobPostingSelectors
}

// NoiseSelectors returns elements to strip for p, such as apply forms.
func (p Platform) NoiseSelectors() []string {
	return platforms[p].noise
}
