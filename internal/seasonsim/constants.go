package seasonsim

// Simulation defaults.
const (
	DefaultWeeks   = 18
	DefaultPlayed  = 4
	DefaultWorkers = 4

	drivesPerGame  = 22
	minDrivePlays  = 3
	maxDrivePlays  = 9
	touchdownRate  = 0.22
	gameSeconds    = 4 * 15 * 60
	firstPlayID    = 40
	playIDStride   = 23
	startingYards  = 75
	kickoffHourSun = 13
)

// DefaultTeams lists the 32 franchise abbreviations used by nflverse.
var DefaultTeams = []string{
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE",
	"DAL", "DEN", "DET", "GB", "HOU", "IND", "JAX", "KC",
	"LA", "LAC", "LV", "MIA", "MIN", "NE", "NO", "NYG",
	"NYJ", "PHI", "PIT", "SEA", "SF", "TB", "TEN", "WAS",
}

// depth is the per-team roster template. weight is the relative chance the
// slot scores a given touchdown.
var depth = []struct {
	position string
	weight   float64
}{
	{"QB", 0.05},
	{"RB", 0.30},
	{"RB", 0.10},
	{"WR", 0.22},
	{"WR", 0.14},
	{"WR", 0.06},
	{"TE", 0.13},
}

var firstNames = []string{
	"Aaron", "Brandon", "Caleb", "Derrick", "Elijah", "Frank", "Garrett", "Hunter",
	"Isaiah", "Jalen", "Kyle", "Lamar", "Marcus", "Nate", "Omar", "Pierce",
}

var lastNames = []string{
	"Adams", "Bishop", "Carter", "Dawson", "Ellis", "Foster", "Graham",
	"Hayes", "Irving", "Jordan", "Keller", "Lawson", "Mason", "Nolan",
}
