package game

import "sort"

// Generate derives the timed events of a chart, sorted by time.
//
// A hold start is paired with the next hold end on its track. A hold start
// without one gets no duration and plays as a tap.
func Generate(c *Chart) []NoteEvent {
	events := []NoteEvent{}
	if c == nil || c.BPM <= 0 {
		return events
	}

	for track, cells := range c.Tracks {
		for beat, value := range cells {
			kind := KindOf(value)
			if kind == None {
				continue
			}
			event := NoteEvent{
				Track: track,
				Beat:  beat,
				Time:  BeatTime(beat, c.BPM),
				Kind:  kind,
				Value: value,
			}
			if kind == HoldStart {
				for end := beat + 1; end < len(cells); end++ {
					if KindOf(cells[end]) == HoldEnd {
						event.Duration = BeatTime(end-beat, c.BPM)
						break
					}
				}
			}
			events = append(events, event)
		}
	}

	for beat, value := range c.EffectTrack {
		if value <= 0 {
			continue
		}
		events = append(events, NoteEvent{
			Track: EffectTrack,
			Beat:  beat,
			Time:  BeatTime(beat, c.BPM),
			Kind:  Effect,
			Value: value,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Time != events[j].Time {
			return events[i].Time < events[j].Time
		}
		return events[i].Track < events[j].Track
	})
	return events
}
