package jobs

import (
	"fmt"
	"time"
)

// SamplePostings returns the built-in postings served whenever the aggregator
// cannot be reached. The newest one is dated now, each following one a day
// older.
func SamplePostings() []Posting {
	return samplePostings(time.Now().UTC())
}

func samplePostings(now time.Time) []Posting {
	out := make([]Posting, len(samples))
	for i, s := range samples {
		out[i] = Posting{
			ID:          fmt.Sprint(i + 1),
			Title:       s.title,
			Company:     s.company,
			Location:    s.location,
			Description: s.description,
			JobType:     s.jobType,
			WorkMode:    s.workMode,
			PostedDate:  now.Add(-time.Duration(i) * 24 * time.Hour),
			ApplyLink:   fmt.Sprintf("https://example.com/apply/%d", i+1),
			Skills:      append([]string(nil), s.skills...),
			Salary:      s.salary,
		}
	}
	return out
}

type sample struct {
	title       string
	company     string
	location    string
	description string
	jobType     string
	workMode    WorkMode
	skills      []string
	salary      string
}

var samples = []sample{
	{
		title:       "Senior React Developer",
		company:     "TechCorp Inc",
		location:    "San Francisco, CA",
		description: "We are looking for a Senior React Developer with experience in TypeScript, Node.js, and AWS. You will be working on cutting-edge web applications.",
		jobType:     "Full-time",
		workMode:    WorkModeRemote,
		skills:      []string{"React", "TypeScript", "Node.js", "AWS"},
		salary:      "$120,000 - $160,000",
	},
	{
		title:       "Full Stack Engineer",
		company:     "StartupXYZ",
		location:    "New York, NY",
		description: "Join our team as a Full Stack Engineer. Experience with Python, Django, React required. We build innovative fintech solutions.",
		jobType:     "Full-time",
		workMode:    WorkModeHybrid,
		skills:      []string{"Python", "Django", "React", "PostgreSQL"},
		salary:      "$100,000 - $140,000",
	},
	{
		title:       "UX Designer",
		company:     "DesignHub",
		location:    "Austin, TX",
		description: "Looking for UX Designer with Figma expertise. UI/UX design experience required. Create beautiful user experiences.",
		jobType:     "Full-time",
		workMode:    WorkModeOnSite,
		skills:      []string{"Figma", "UI/UX", "Adobe XD", "Sketch"},
		salary:      "$80,000 - $110,000",
	},
	{
		title:       "Backend Developer",
		company:     "DataFlow Inc",
		location:    "Seattle, WA",
		description: "Backend Developer needed with strong Node.js and MongoDB experience. Build scalable APIs and microservices.",
		jobType:     "Full-time",
		workMode:    WorkModeRemote,
		skills:      []string{"Node.js", "MongoDB", "Express", "Docker"},
		salary:      "$110,000 - $150,000",
	},
	{
		title:       "Frontend Developer",
		company:     "WebSolutions",
		location:    "Chicago, IL",
		description: "Frontend Developer with Vue.js experience. HTML, CSS, JavaScript required. Join our growing team.",
		jobType:     "Full-time",
		workMode:    WorkModeHybrid,
		skills:      []string{"Vue.js", "JavaScript", "HTML", "CSS"},
		salary:      "$90,000 - $120,000",
	},
	{
		title:       "DevOps Engineer",
		company:     "CloudTech",
		location:    "Denver, CO",
		description: "DevOps Engineer with AWS and Kubernetes experience. CI/CD pipeline management and infrastructure as code.",
		jobType:     "Full-time",
		workMode:    WorkModeRemote,
		skills:      []string{"AWS", "Kubernetes", "Docker", "Terraform"},
		salary:      "$130,000 - $170,000",
	},
	{
		title:       "Python Developer",
		company:     "AI Solutions",
		location:    "Boston, MA",
		description: "Python Developer for Machine Learning projects. Experience with TensorFlow and data processing required.",
		jobType:     "Full-time",
		workMode:    WorkModeHybrid,
		skills:      []string{"Python", "Machine Learning", "TensorFlow", "SQL"},
		salary:      "$125,000 - $165,000",
	},
	{
		title:       "Mobile Developer",
		company:     "AppWorks",
		location:    "Los Angeles, CA",
		description: "React Native developer for iOS and Android apps. Experience with mobile development best practices.",
		jobType:     "Contract",
		workMode:    WorkModeRemote,
		skills:      []string{"React Native", "JavaScript", "iOS", "Android"},
		salary:      "$100,000 - $140,000",
	},
	{
		title:       "Junior Web Developer",
		company:     "TechStart",
		location:    "Miami, FL",
		description: "Entry level Web Developer position. HTML, CSS, JavaScript basics required. Great learning opportunity.",
		jobType:     "Internship",
		workMode:    WorkModeOnSite,
		skills:      []string{"HTML", "CSS", "JavaScript", "Git"},
		salary:      "$50,000 - $70,000",
	},
	{
		title:       "Data Engineer",
		company:     "BigData Corp",
		location:    "Portland, OR",
		description: "Data Engineer with SQL and Python skills. Build data pipelines and ETL processes.",
		jobType:     "Full-time",
		workMode:    WorkModeRemote,
		skills:      []string{"Python", "SQL", "Apache Spark", "AWS"},
		salary:      "$115,000 - $155,000",
	},
}
