package ui

import "testing"

func TestRouter_Transitions(t *testing.T) {
	tests := []struct {
		from   View
		action Action
		want   View
		ok     bool
	}{
		{ViewLogin, ActionLogin, ViewList, true},
		{ViewLogin, ActionNew, ViewNone, false},
		{ViewList, ActionNew, ViewForm, true},
		{ViewList, ActionEdit, ViewForm, true},
		{ViewList, ActionView, ViewDetail, true},
		{ViewList, ActionDelete, ViewList, true},
		{ViewList, ActionLogout, ViewLogin, true},
		{ViewList, ActionComment, ViewNone, false},
		{ViewForm, ActionSubmit, ViewList, true},
		{ViewForm, ActionCancel, ViewList, true},
		{ViewForm, ActionDelete, ViewNone, false},
		{ViewDetail, ActionComment, ViewDetail, true},
		{ViewDetail, ActionBack, ViewList, true},
		{ViewDetail, ActionLogout, ViewNone, false},
		{ViewNone, ActionLogin, ViewNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.action.String(), func(t *testing.T) {
			var r Router
			r.Go(Route{View: tt.from})
			got, ok := r.Target(tt.action)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Target = %v,%v want %v,%v", got, ok, tt.want, tt.ok)
			}
			if r.Allows(tt.action) != tt.ok {
				t.Errorf("Allows = %v, want %v", !tt.ok, tt.ok)
			}
		})
	}
}

func TestRouter_GoResetsFormMode(t *testing.T) {
	var r Router
	r.Go(Route{View: ViewForm, Mode: FormEdit})
	if r.Route().Mode != FormEdit {
		t.Fatal("form route should keep its mode")
	}
	r.Go(Route{View: ViewList, Mode: FormEdit})
	if r.Route().Mode != FormCreate {
		t.Error("mode should only be carried by the form view")
	}
	if r.View() != ViewList {
		t.Errorf("View = %v", r.View())
	}
}

func TestAction_String(t *testing.T) {
	if ActionComment.String() != "comment" {
		t.Errorf("String = %q", ActionComment.String())
	}
	if Action(99).String() != "unknown" {
		t.Error("unexpected name for an unknown action")
	}
}
