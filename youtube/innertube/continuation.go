package innertube

// OnResponseAction represents actions to take on response.
type OnResponseAction struct {
	AppendContinuationItemsAction *AppendContinuationItemsAction `json:"appendContinuationItemsAction,omitempty"`
}

// AppendContinuationItemsAction contains continuation results.
type AppendContinuationItemsAction struct {
	ContinuationItems []Renderer `json:"continuationItems,omitempty"`
}

// ContinuationItemRenderer provides pagination tokens.
type ContinuationItemRenderer struct {
	ContinuationEndpoint *ContinuationEndpoint `json:"continuationEndpoint,omitempty"`
	Button               *ContinuationButton   `json:"button,omitempty"`
}

// ContinuationEndpoint contains the continuation token.
type ContinuationEndpoint struct {
	ContinuationCommand *ContinuationCommand `json:"continuationCommand,omitempty"`
}

// ContinuationCommand holds the actual token.
type ContinuationCommand struct {
	Token string `json:"token,omitempty"`
}

// ContinuationButton is the "show more" variant of the marker.
type ContinuationButton struct {
	ButtonRenderer *struct {
		Command *ContinuationEndpoint `json:"command,omitempty"`
	} `json:"buttonRenderer,omitempty"`
}

// Token returns the continuation token, preferring the endpoint form over
// the button form. It returns "" when neither carries one.
func (r *ContinuationItemRenderer) Token() string {
	if r == nil {
		return ""
	}
	if r.ContinuationEndpoint != nil && r.ContinuationEndpoint.ContinuationCommand != nil &&
		r.ContinuationEndpoint.ContinuationCommand.Token != "" {
		return r.ContinuationEndpoint.ContinuationCommand.Token
	}
	if r.Button != nil && r.Button.ButtonRenderer != nil {
		cmd := r.Button.ButtonRenderer.Command
		if cmd != nil && cmd.ContinuationCommand != nil {
			return cmd.ContinuationCommand.Token
		}
	}
	return ""
}

// ContinuationItems returns the items appended by the first response action.
// ok is false when the response carries no actions at all, which marks the
// end of the playlist.
func (d *InitialData) ContinuationItems() (items []Renderer, ok bool) {
	if d == nil || len(d.OnResponseReceivedActions) == 0 {
		return nil, false
	}
	action := d.OnResponseReceivedActions[0].AppendContinuationItemsAction
	if action == nil {
		return nil, true
	}
	return action.ContinuationItems, true
}
