package ui

// View identifies which screen is active. Exactly one is active at a time.
type View int

const (
	// ViewNone is the state before the user roster has been fetched.
	ViewNone View = iota
	ViewLogin
	ViewList
	ViewForm
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewList:
		return "list"
	case ViewForm:
		return "form"
	case ViewDetail:
		return "detail"
	default:
		return "none"
	}
}

// FormMode says whether the form creates a new article or edits one.
type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

// Action is a user intent dispatched from a view to the root model.
type Action int

const (
	ActionLogin Action = iota
	ActionLogout
	ActionNew
	ActionEdit
	ActionDelete
	ActionView
	ActionFilter
	ActionRefresh
	ActionSubmit
	ActionCancel
	ActionBack
	ActionComment
	ActionCopy
)

var actionNames = map[Action]string{
	ActionLogin:   "login",
	ActionLogout:  "logout",
	ActionNew:     "new",
	ActionEdit:    "edit",
	ActionDelete:  "delete",
	ActionView:    "view",
	ActionFilter:  "filter",
	ActionRefresh: "refresh",
	ActionSubmit:  "submit",
	ActionCancel:  "cancel",
	ActionBack:    "back",
	ActionComment: "comment",
	ActionCopy:    "copy",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// transitions lists, per view, the actions it accepts and the view that
// follows once the action succeeds.
var transitions = map[View]map[Action]View{
	ViewLogin: {
		ActionLogin: ViewList,
	},
	ViewList: {
		ActionNew:     ViewForm,
		ActionEdit:    ViewForm,
		ActionView:    ViewDetail,
		ActionDelete:  ViewList,
		ActionFilter:  ViewList,
		ActionRefresh: ViewList,
		ActionLogout:  ViewLogin,
	},
	ViewForm: {
		ActionSubmit: ViewList,
		ActionCancel: ViewList,
	},
	ViewDetail: {
		ActionComment: ViewDetail,
		ActionCopy:    ViewDetail,
		ActionBack:    ViewList,
	},
}

// Route is the active view plus the form mode when the form is showing.
type Route struct {
	View View
	Mode FormMode
}

// Router tracks the active view.
type Router struct {
	route Route
}

// Route returns the active route.
func (r *Router) Route() Route { return r.route }

// View returns the active view.
func (r *Router) View() View { return r.route.View }

// Allows reports whether the active view accepts a.
func (r *Router) Allows(a Action) bool {
	_, ok := transitions[r.route.View][a]
	return ok
}

// Target returns the view a leads to from the active view.
func (r *Router) Target(a Action) (View, bool) {
	v, ok := transitions[r.route.View][a]
	return v, ok
}

// Go replaces the active route.
func (r *Router) Go(route Route) {
	if route.View != ViewForm {
		route.Mode = FormCreate
	}
	r.route = route
}
