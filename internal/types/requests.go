package types

// AddIngredientRequest is the body of POST /session/ingredients
type AddIngredientRequest struct {
	Text string `json:"text" binding:"required"`
}

// TranslateResponse is returned by the translation endpoint
type TranslateResponse struct {
	Text       string `json:"text"`
	Translated string `json:"translated"`
	From       string `json:"from"`
	To         string `json:"to"`
}
