package nutrition

import "math"

// Segment identifies a race leg on the fueling timeline.
type Segment string

const (
	SegmentSwim Segment = "swim"
	SegmentT1   Segment = "t1"
	SegmentBike Segment = "bike"
	SegmentT2   Segment = "t2"
	SegmentRun  Segment = "run"
)

// Event is one fueling action at a minute offset from the race start.
type Event struct {
	ElapsedMinutes int     `json:"elapsedMinutes"`
	Segment        Segment `json:"segment"`
	Label          string  `json:"label"`
	CarbsG         float64 `json:"carbsG"`
	FluidMl        float64 `json:"fluidMl"`
	SodiumMg       float64 `json:"sodiumMg"`
}

// Aggregate sums fueling quantities.
type Aggregate struct {
	CarbsG   float64 `json:"carbsG"`
	FluidMl  float64 `json:"fluidMl"`
	SodiumMg float64 `json:"sodiumMg"`
}

// Plan is the complete nutrition output: hourly rates, the discrete
// timeline, and per-segment plus overall totals. Segment totals are
// computed from the events, so the sums always agree.
type Plan struct {
	Rates    Rates                 `json:"rates"`
	Events   []Event               `json:"events"`
	Segments map[Segment]Aggregate `json:"segmentTotals"`
	Totals   Aggregate             `json:"totals"`
	Minimal  bool                  `json:"minimalSchedule"`
}

// SegmentDurations carries the estimated minutes per race leg.
type SegmentDurations struct {
	SwimMin float64
	T1Min   float64
	BikeMin float64
	T2Min   float64
	RunMin  float64
}

// Total returns the summed race duration in minutes.
func (d SegmentDurations) Total() float64 {
	return d.SwimMin + d.T1Min + d.BikeMin + d.T2Min + d.RunMin
}

const (
	// One gel carries 25g of carbohydrate.
	gelCarbsG = 25.0
	// Fluid is taken in quarter-hour sips.
	fluidIntervalMin = 15
	// No fueling event is scheduled inside the final minutes of a
	// segment, keeping events clear of the transition window.
	transitionMarginMin = 5
	// Races at or under this total use the minimal schedule.
	shortRaceMinutes = 90.0
)

// BuildTimeline expands hourly rates into the discrete event timeline.
// sprint forces the minimal schedule regardless of duration.
func BuildTimeline(d SegmentDurations, rates Rates, sprint bool) Plan {
	plan := Plan{
		Rates:    rates,
		Segments: make(map[Segment]Aggregate),
	}

	if sprint || d.Total() < shortRaceMinutes {
		plan.Minimal = true
		plan.Events = minimalSchedule(d)
	} else {
		plan.Events = sweep(d, rates)
	}

	for _, e := range plan.Events {
		agg := plan.Segments[e.Segment]
		agg.CarbsG += e.CarbsG
		agg.FluidMl += e.FluidMl
		agg.SodiumMg += e.SodiumMg
		plan.Segments[e.Segment] = agg

		plan.Totals.CarbsG += e.CarbsG
		plan.Totals.FluidMl += e.FluidMl
		plan.Totals.SodiumMg += e.SodiumMg
	}
	return plan
}

// sweep walks the bike and run segments with two independent "next due"
// counters, one per fuel kind. The cursor always advances to the nearest
// due event; when both counters land on the same minute a combined event
// is emitted and both are rescheduled, otherwise only the consumed
// counter moves.
func sweep(d SegmentDurations, rates Rates) []Event {
	gelInterval := int(math.Round(gelCarbsG / rates.CarbsGPerHour * 60))
	if gelInterval < 1 {
		gelInterval = 1
	}
	fluidPerEvent := math.Round(rates.FluidMlPerHour / 4)
	sodiumPerEvent := math.Round(rates.SodiumMgPerHour / 4)

	var events []Event
	segments := []struct {
		seg   Segment
		start float64
		dur   float64
	}{
		{SegmentBike, d.SwimMin + d.T1Min, d.BikeMin},
		{SegmentRun, d.SwimMin + d.T1Min + d.BikeMin + d.T2Min, d.RunMin},
	}

	for _, s := range segments {
		start := int(math.Round(s.start))
		end := int(math.Round(s.start+s.dur)) - transitionMarginMin

		nextGel := start + gelInterval
		nextFluid := start + fluidIntervalMin
		for {
			cursor := min(nextGel, nextFluid)
			if cursor > end {
				break
			}
			e := Event{ElapsedMinutes: cursor, Segment: s.seg}
			gelDue := cursor == nextGel
			fluidDue := cursor == nextFluid
			if gelDue {
				e.CarbsG += gelCarbsG
				nextGel = cursor + gelInterval
			}
			if fluidDue {
				e.FluidMl += fluidPerEvent
				e.SodiumMg += sodiumPerEvent
				nextFluid = cursor + fluidIntervalMin
			}
			switch {
			case gelDue && fluidDue:
				e.Label = "gel + drink"
			case gelDue:
				e.Label = "gel"
			default:
				e.Label = "drink"
			}
			events = append(events, e)
		}
	}
	return events
}

// minimalSchedule is the short-race fallback: a single gel midway through
// the bike and a single drink a third of the way in.
func minimalSchedule(d SegmentDurations) []Event {
	bikeStart := d.SwimMin + d.T1Min
	drinkAt := int(math.Round(bikeStart + d.BikeMin/3))
	gelAt := int(math.Round(bikeStart + d.BikeMin/2))
	return []Event{
		{ElapsedMinutes: drinkAt, Segment: SegmentBike, Label: "drink", FluidMl: 250, SodiumMg: 120},
		{ElapsedMinutes: gelAt, Segment: SegmentBike, Label: "gel", CarbsG: gelCarbsG},
	}
}
