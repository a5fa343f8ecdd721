// Package dedupe provides shared singleflight groups used to collapse
// concurrent duplicate requests. Only one call runs per key while other
// callers wait for its result.
package dedupe

import "golang.org/x/sync/singleflight"

// ActionGroup deduplicates battle action submissions keyed by
// keys.ActionKey (battle id, turn, action and index).
var ActionGroup singleflight.Group
