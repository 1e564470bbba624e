package constants

const (
	Create     = "CREATE"
	Update     = "UPDATE"
	Delete     = "DELETE"
	Signup     = "SIGNUP"
	Login      = "LOGIN"
	Borrow     = "BORROW"
	Return     = "RETURN"
	SetStock   = "SET_STOCK"
	Deactivate = "DEACTIVATE"
)
