package domain

import "time"

type Track struct {
	VideoId   string
	Title     string
	Thumbnail string
}

// PlaybackState is either Stopped or Playing.
type PlaybackState interface {
	position() float64
}

type Stopped struct {
	Position float64
}

func (s Stopped) position() float64 { return s.Position }

// Playing means the track was at Position at the instant AnchoredAt.
type Playing struct {
	Position   float64
	AnchoredAt time.Time
}

func (p Playing) position() float64 { return p.Position }

// StartedAt is the instant the track would have been at position 0.
func (p Playing) StartedAt() time.Time {
	return p.AnchoredAt.Add(-seconds(p.Position))
}

type Player struct {
	Track *Track
	State PlaybackState
}

func NewPlayer() Player {
	return Player{State: Stopped{}}
}

func (p Player) IsPlaying() bool {
	_, ok := p.State.(Playing)
	return ok
}

// Position returns the anchored position without projecting it.
func (p Player) Position() float64 {
	if p.State == nil {
		return 0
	}

	return p.State.position()
}

// Project estimates the live position in seconds at now.
func (p Player) Project(now time.Time) float64 {
	playing, ok := p.State.(Playing)
	if !ok {
		return p.Position()
	}

	position := playing.Position + now.Sub(playing.AnchoredAt).Seconds()
	if position < 0 {
		return 0
	}

	return position
}

// Load replaces the track and restarts it from 0, even if it is the same video.
func (p *Player) Load(track Track, now time.Time) {
	p.Track = &track
	p.State = Playing{Position: 0, AnchoredAt: truncate(now)}
}

func (p *Player) SetPlaying(isPlaying bool, currentTime float64, now time.Time) {
	if isPlaying {
		p.State = Playing{Position: currentTime, AnchoredAt: truncate(now)}
		return
	}

	p.State = Stopped{Position: currentTime}
}

// Seek re-anchors only while playing.
func (p *Player) Seek(time float64, now time.Time) {
	if p.IsPlaying() {
		p.State = Playing{Position: time, AnchoredAt: truncate(now)}
		return
	}

	p.State = Stopped{Position: time}
}

// anchors keep millisecond resolution, the same as the wire and durable formats
func truncate(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
