package planner

import (
	"fmt"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/types"
)

// lockTargets runs the smart-lock state machine over the per-frame
// proposals. Once locked onto a track, the camera ignores competing
// proposals unless the challenger dominates the look-ahead window, the
// challenger is a face upgrading a body lock, or the locked track
// disappears for longer than the grace period.
func lockTargets(frames []types.DetectionFrame, proposals []Proposal, cfg config.SmartLockConfig) ([]types.Point, []string) {
	targets := make([]types.Point, len(frames))
	reasons := make([]string, len(frames))

	var lockedID, lockedClass *int
	for i, p := range proposals {
		target := p.Point
		reason := p.Reason

		switch {
		case lockedID == nil:
			if p.HasTrack() {
				lockedID, lockedClass = copyID(p.TrackID), copyID(p.ClassID)
			}

		case p.HasTrack() && *p.TrackID == *lockedID:
			// Proposal agrees with the lock. Follow it as-is.

		case p.HasTrack() && *lockedClass == types.ClassBody && *p.ClassID == types.ClassFace:
			// A face always takes over a body lock immediately.
			lockedID, lockedClass = copyID(p.TrackID), copyID(p.ClassID)
			reason = fmt.Sprintf("Priority Upgrade: Body->Face ID:%d", *p.TrackID)

		default:
			locked, present := findTrack(frames[i].Tracks, *lockedID, *lockedClass)
			if !present {
				if reappearsWithin(frames, i, *lockedID, *lockedClass, cfg.GracePeriodFrames) {
					// Occlusion grace: freeze the camera where it was.
					reason = fmt.Sprintf("Hold Lock ID:%d (Reappears soon)", *lockedID)
					if i > 0 {
						target = targets[i-1]
					}
				} else {
					lockedID, lockedClass = copyID(p.TrackID), copyID(p.ClassID)
				}
				break
			}

			if !p.HasTrack() {
				target = framingPoint(locked)
				reason = fmt.Sprintf("Locked ID:%d (Ignored Saliency)", *lockedID)
				break
			}

			if challengerDominates(frames, i, locked, p, cfg) {
				lockedID, lockedClass = copyID(p.TrackID), copyID(p.ClassID)
			} else {
				target = framingPoint(locked)
				reason = fmt.Sprintf("Locked ID:%d (Ignored %d)", *lockedID, *p.TrackID)
			}
		}

		targets[i] = target
		reasons[i] = reason
	}
	return targets, reasons
}

// challengerDominates scores the locked track against the proposed one
// over the look-ahead window. The challenger wins when its box is larger
// in more than switch_threshold_ratio of the future frames. An empty
// window at the end of the video yields to the challenger.
func challengerDominates(frames []types.DetectionFrame, i int, locked types.TrackedObject, p Proposal, cfg config.SmartLockConfig) bool {
	end := i + cfg.LookAheadFrames
	if end > len(frames) {
		end = len(frames)
	}
	total := end - (i + 1)
	if total <= 0 {
		return true
	}
	wins := 0
	for k := i + 1; k < end; k++ {
		lockedArea := trackArea(frames[k].Tracks, locked.ID, locked.ClassID)
		proposedArea := trackArea(frames[k].Tracks, *p.TrackID, *p.ClassID)
		if proposedArea > lockedArea {
			wins++
		}
	}
	return float64(wins)/float64(total) > cfg.SwitchThresholdRatio
}

func reappearsWithin(frames []types.DetectionFrame, i, id, classID, grace int) bool {
	limit := i + grace
	if limit > len(frames) {
		limit = len(frames)
	}
	for k := i + 1; k < limit; k++ {
		if _, ok := findTrack(frames[k].Tracks, id, classID); ok {
			return true
		}
	}
	return false
}

func findTrack(tracks []types.TrackedObject, id, classID int) (types.TrackedObject, bool) {
	for _, t := range tracks {
		if t.ID == id && t.ClassID == classID {
			return t, true
		}
	}
	return types.TrackedObject{}, false
}

func trackArea(tracks []types.TrackedObject, id, classID int) int {
	if t, ok := findTrack(tracks, id, classID); ok {
		return t.Box.Area()
	}
	return 0
}

func copyID(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
