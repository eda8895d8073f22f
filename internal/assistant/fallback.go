package assistant

import (
	"strings"

	"github.com/spigell/jobmatch/internal/jobs"
)

const (
	msgRemote  = "I found remote jobs for you. Filtering to show only remote positions."
	msgReact   = "Showing React developer positions."
	msgPython  = "Showing Python developer positions."
	msgBest    = "Showing jobs with the highest match scores (70%+)."
	msgSenior  = "Showing senior level positions."
	msgMatch   = "Job matching works by analyzing your resume against each job posting. We look at your skills, experience, and keywords to calculate a match percentage. Green (70%+) means excellent match, Yellow (40-70%) is good, and Gray (<40%) might need more relevant experience."
	msgUpload  = `To upload your resume, you'll see a popup when you first visit the app. You can also replace it anytime by clicking the "Replace" button in the resume section at the top of the jobs page.`
	msgApps    = `You can see all your applications by clicking "Applications" in the top navigation. There you can track status, update progress, and see your application timeline.`
	msgDefault = `I can help you find jobs! Try asking me things like "Show me remote React jobs" or "Find senior roles". I can also answer questions about how the app works.`
)

const bestMatchThreshold = 70

type rule struct {
	match func(msg string) bool
	reply func() Reply
}

func containsAll(words ...string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if !strings.Contains(msg, w) {
				return false
			}
		}
		return true
	}
}

func containsAny(words ...string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}
}

func filterReply(patch jobs.FilterPatch, message string) func() Reply {
	return func() Reply {
		p := patch
		return Reply{Type: ReplyJobFilter, Filters: &p, Message: message}
	}
}

func textReply(message string) func() Reply {
	return func() Reply {
		return Reply{Type: ReplyText, Message: message}
	}
}

// rules are evaluated top to bottom and the first match wins, so a message
// mentioning both "remote" and "react" only filters on remote.
var rules = []rule{
	{containsAll("remote"), filterReply(jobs.FilterPatch{WorkMode: jobs.String("remote")}, msgRemote)},
	{containsAll("react"), filterReply(jobs.FilterPatch{Query: jobs.String("react")}, msgReact)},
	{containsAll("python"), filterReply(jobs.FilterPatch{Query: jobs.String("python")}, msgPython)},
	{containsAny("highest match", "best match"), filterReply(jobs.FilterPatch{MinMatchScore: jobs.Int(bestMatchThreshold)}, msgBest)},
	{containsAll("senior"), filterReply(jobs.FilterPatch{Query: jobs.String("senior")}, msgSenior)},
	{containsAll("how", "matching"), textReply(msgMatch)},
	{containsAll("upload", "resume"), textReply(msgUpload)},
	{containsAll("application"), textReply(msgApps)},
}

// Fallback routes message with keyword rules alone.
func Fallback(message string) Reply {
	msg := strings.ToLower(message)
	for _, r := range rules {
		if r.match(msg) {
			return r.reply()
		}
	}
	return textReply(msgDefault)()
}
