package resolve

import "github.com/louisbranch/switchback/internal/trek/domain"

// Flavor line pools for system narration. Picked with the session RNG so
// replays with the same seed narrate the same trek.

var movePhrases = []string{
	"The party pushes on.",
	"Boots crunch along the trail.",
	"The trail climbs steadily.",
	"The party keeps a measured pace.",
}

var restPhrases = []string{
	"The party stops for a breather and some water.",
	"Packs come off for a short rest.",
	"The party rests in the lee of a boulder.",
}

var observeDefault = []string{
	"A hawk circles high overhead.",
	"Prayer flags flutter somewhere upslope.",
	"Distant ridgelines stack toward the horizon.",
}

var observeByWeather = map[domain.Weather][]string{
	domain.WeatherFoggy: {
		"Shapes loom and dissolve in the fog.",
		"The trail ahead fades into white.",
	},
	domain.WeatherRainy: {
		"Rain drums on hoods and pack covers.",
		"Runnels of water cut across the path.",
	},
	domain.WeatherSnowy: {
		"Snow softens every sound on the mountain.",
		"Fresh tracks of some small animal cross the trail.",
	},
	domain.WeatherWindy: {
		"Gusts tear at jackets and shout down conversation.",
		"The wind carries the smell of cold stone.",
	},
	domain.WeatherSunny: {
		"Sunlight glints off mica in the scree.",
		"The valley below is sharp and clear.",
	},
}

func (r *Resolver) movePhrase() string {
	return movePhrases[r.rng.Intn(len(movePhrases))]
}

func (r *Resolver) restPhrase() string {
	return restPhrases[r.rng.Intn(len(restPhrases))]
}

func (r *Resolver) observePhrase(w domain.Weather) string {
	pool := observeByWeather[w]
	if len(pool) == 0 {
		pool = observeDefault
	}
	return pool[r.rng.Intn(len(pool))]
}
