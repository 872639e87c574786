package domain

// ScanConfig is the admin configuration document consumed by the
// orchestrator and the scoring engine. Only the sections this service reads
// are modelled; other keys in the stored document are ignored.
type ScanConfig struct {
	AllowedStates    []string        `json:"allowedStates" yaml:"allowedStates"`
	Metros           []Metro         `json:"metros" yaml:"metros"`
	MetroRadiusMiles float64         `json:"metroRadiusMiles" yaml:"metroRadiusMiles"`
	Acreage          AcreageRange    `json:"acreage" yaml:"acreage"`
	DealStatus       DealStatus      `json:"dealStatus" yaml:"dealStatus"`
	Filters          Filters         `json:"filters" yaml:"filters"`
	FitScore         FitScoreConfig  `json:"fitScore" yaml:"fitScore"`
	Schedules        Schedules       `json:"schedules" yaml:"schedules"`
	Notifications    Notifications   `json:"notifications" yaml:"notifications"`
	ListingSources   []ListingSource `json:"listingSources" yaml:"listingSources"`
	CrawlPolicy      CrawlPolicy     `json:"crawlPolicy" yaml:"crawlPolicy"`
}

type Metro struct {
	Name       string  `json:"name" yaml:"name"`
	Lat        float64 `json:"lat" yaml:"lat"`
	Lon        float64 `json:"lon" yaml:"lon"`
	UseAirport bool    `json:"useAirport" yaml:"useAirport"`
}

type AcreageRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

type DealStatus struct {
	Listed     bool `json:"listed" yaml:"listed"`
	OffMarket  bool `json:"offMarket" yaml:"offMarket"`
	Distressed bool `json:"distressed" yaml:"distressed"`
}

type Filters struct {
	SlopeMaxPct      *float64        `json:"slopeMaxPct,omitempty" yaml:"slopeMaxPct,omitempty"`
	WetlandsMaxPct   *float64        `json:"wetlandsMaxPct,omitempty" yaml:"wetlandsMaxPct,omitempty"`
	FloodwayExcluded bool            `json:"floodwayExcluded" yaml:"floodwayExcluded"`
	Utilities        UtilityMaxMiles `json:"utilities" yaml:"utilities"`
}

// UtilityMaxMiles holds the acceptable distance per utility. Nil means no limit.
type UtilityMaxMiles struct {
	PowerMaxMiles *float64 `json:"powerMaxMiles,omitempty" yaml:"powerMaxMiles,omitempty"`
	FiberMaxMiles *float64 `json:"fiberMaxMiles,omitempty" yaml:"fiberMaxMiles,omitempty"`
	WaterMaxMiles *float64 `json:"waterMaxMiles,omitempty" yaml:"waterMaxMiles,omitempty"`
	SewerMaxMiles *float64 `json:"sewerMaxMiles,omitempty" yaml:"sewerMaxMiles,omitempty"`
	GasMaxMiles   *float64 `json:"gasMaxMiles,omitempty" yaml:"gasMaxMiles,omitempty"`
}

type FitScoreConfig struct {
	Weights    Weights        `json:"weights" yaml:"weights"`
	Thresholds Thresholds     `json:"thresholds" yaml:"thresholds"`
	AutoFail   AutoFailConfig `json:"autoFail" yaml:"autoFail"`
}

type Weights struct {
	Acreage         float64 `json:"acreage" yaml:"acreage"`
	LandCoverMix    float64 `json:"landCoverMix" yaml:"landCoverMix"`
	WaterPresence   float64 `json:"waterPresence" yaml:"waterPresence"`
	MetroProximity  float64 `json:"metroProximity" yaml:"metroProximity"`
	Slope           float64 `json:"slope" yaml:"slope"`
	Soils           float64 `json:"soils" yaml:"soils"`
	RoadAccess      float64 `json:"roadAccess" yaml:"roadAccess"`
	EasementPenalty float64 `json:"easementPenalty" yaml:"easementPenalty"`
	Utilities       float64 `json:"utilities" yaml:"utilities"`
}

type Thresholds struct {
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
}

type AutoFailConfig struct {
	Floodway        bool     `json:"floodway" yaml:"floodway"`
	WetlandsOverPct *float64 `json:"wetlandsOverPct,omitempty" yaml:"wetlandsOverPct,omitempty"`
}

type Schedules struct {
	WeeklyScan   WeeklySchedule `json:"weeklyScan" yaml:"weeklyScan"`
	OnDemandScan Toggle         `json:"onDemandScan" yaml:"onDemandScan"`
}

type WeeklySchedule struct {
	Enabled      bool `json:"enabled" yaml:"enabled"`
	DayOfWeekUTC int  `json:"dayOfWeekUTC" yaml:"dayOfWeekUTC"`
	HourUTC      int  `json:"hourUTC" yaml:"hourUTC"`
}

type Toggle struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

type Notifications struct {
	OnScanComplete struct {
		EmailList []string `json:"emailList" yaml:"emailList"`
	} `json:"onScanComplete" yaml:"onScanComplete"`
}

// ListingSource configures one portal or broker.
type ListingSource struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	BaseURL         string `json:"baseUrl" yaml:"baseUrl"`
	Type            string `json:"type" yaml:"type"`
	Adapter         string `json:"adapter" yaml:"adapter"`
	Enabled         bool   `json:"enabled" yaml:"enabled"`
	CrawlFrequency  string `json:"crawlFrequency" yaml:"crawlFrequency"`
	RateLimitPerMin int    `json:"rateLimitPerMin" yaml:"rateLimitPerMin"`
}

type CrawlPolicy struct {
	ProxyPoolEnabled       bool   `json:"proxyPoolEnabled" yaml:"proxyPoolEnabled"`
	CaptchaProvider        string `json:"captchaProvider,omitempty" yaml:"captchaProvider,omitempty"`
	MaxConcurrentPerSource int    `json:"maxConcurrentPerSource" yaml:"maxConcurrentPerSource"`
	Retries                int    `json:"retries" yaml:"retries"`
}

// EnabledSources returns enabled sources in configuration order.
func (c ScanConfig) EnabledSources() []ListingSource {
	enabled := make([]ListingSource, 0, len(c.ListingSources))
	for _, s := range c.ListingSources {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// SearchParams builds the global search parameters for a scan.
func (c ScanConfig) SearchParams() SearchParams {
	states := make([]string, len(c.AllowedStates))
	copy(states, c.AllowedStates)
	return SearchParams{
		States:     states,
		MinAcreage: c.Acreage.Min,
		MaxAcreage: c.Acreage.Max,
	}
}

func floatPtr(v float64) *float64 { return &v }

// DefaultScanConfig returns the configuration a fresh installation starts with.
func DefaultScanConfig() ScanConfig {
	cfg := ScanConfig{
		AllowedStates:    []string{"VA", "NC", "SC", "GA", "FL", "AL"},
		Metros:           []Metro{},
		MetroRadiusMiles: 30,
		Acreage:          AcreageRange{Min: 100, Max: 1000},
		DealStatus:       DealStatus{Listed: true, OffMarket: true, Distressed: true},
		Filters: Filters{
			SlopeMaxPct:      floatPtr(40),
			WetlandsMaxPct:   floatPtr(50),
			FloodwayExcluded: true,
		},
		FitScore: FitScoreConfig{
			Weights: Weights{
				Acreage:         20,
				LandCoverMix:    20,
				WaterPresence:   10,
				MetroProximity:  10,
				Slope:           10,
				Soils:           10,
				RoadAccess:      10,
				EasementPenalty: 5,
				Utilities:       5,
			},
			Thresholds: Thresholds{High: 80, Medium: 60},
			AutoFail:   AutoFailConfig{Floodway: true, WetlandsOverPct: floatPtr(50)},
		},
		Schedules: Schedules{
			WeeklyScan:   WeeklySchedule{Enabled: true, DayOfWeekUTC: 0, HourUTC: 2},
			OnDemandScan: Toggle{Enabled: true},
		},
		CrawlPolicy: CrawlPolicy{
			ProxyPoolEnabled:       true,
			CaptchaProvider:        "None",
			MaxConcurrentPerSource: 2,
			Retries:                3,
		},
	}
	cfg.Notifications.OnScanComplete.EmailList = []string{}

	sources := []struct{ id, name, baseURL, kind string }{
		{"landwatch", "LandWatch", "https://www.landwatch.com", "portal"},
		{"hallhall", "Hall and Hall", "https://hallhall.com", "broker"},
		{"landandfarm", "Land And Farm", "https://www.landandfarm.com", "portal"},
		{"landsofamerica", "Lands of America", "https://www.landsofamerica.com", "portal"},
		{"whitetail", "Whitetail Properties", "https://www.whitetailproperties.com", "broker"},
		{"unitedcountry", "United Country", "https://www.unitedcountry.com", "broker"},
		{"landleader", "LandLeader", "https://www.landleader.com", "portal"},
		{"masonmorse", "Mason & Morse Ranch", "https://www.ranchland.com", "broker"},
		{"afm", "AFM Real Estate", "https://www.afmrealestate.com", "broker"},
		{"peoples", "Peoples Company", "https://peoplescompany.com", "broker"},
		{"nai", "NAI Land", "https://www.nai-global.com", "broker"},
		{"crexi", "Crexi (Land)", "https://www.crexi.com", "portal"},
		{"loopnet", "LoopNet (Land)", "https://www.loopnet.com", "portal"},
	}
	for _, s := range sources {
		cfg.ListingSources = append(cfg.ListingSources, ListingSource{
			ID:              s.id,
			Name:            s.name,
			BaseURL:         s.baseURL,
			Type:            s.kind,
			Adapter:         s.id,
			Enabled:         true,
			CrawlFrequency:  "weekly",
			RateLimitPerMin: 6,
		})
	}
	return cfg
}
