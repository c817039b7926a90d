package summarizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const chatFixture = `This Agreement is made between Party A and Party B.
Party A agrees to provide consulting services to Party B.
The total payment shall be fifty thousand dollars in monthly installments.
Either party may terminate with thirty days written notice.`

func TestAnswerPicksBestSentence(t *testing.T) {
	answer := Answer(chatFixture, "what about the payment installments")
	require.Equal(t, "The total payment shall be fifty thousand dollars in monthly installments.", answer)
}

func TestAnswerCapitalizesSentence(t *testing.T) {
	answer := Answer("the notice period is thirty days.", "notice period")
	require.Equal(t, "The notice period is thirty days.", answer)
}

func TestAnswerNoContent(t *testing.T) {
	require.Equal(t, NoContentAnswer, Answer("", "anything"))
	require.Equal(t, NoContentAnswer, Answer("   \n ", "anything"))
}

func TestAnswerNoMatch(t *testing.T) {
	require.Equal(t, NoMatchAnswer, Answer(chatFixture, "spacecraft telemetry"))
}

func TestAnswerIgnoresShortQueryWords(t *testing.T) {
	// Every query token is three characters or fewer, so nothing matches.
	require.Equal(t, NoMatchAnswer, Answer(chatFixture, "is a the and"))
}

func TestAnswerTieKeepsFirstSentence(t *testing.T) {
	text := "alpha clause covers payment terms.\nbeta clause covers payment terms."
	require.Equal(t, "Alpha clause covers payment terms.", Answer(text, "payment terms"))
}
