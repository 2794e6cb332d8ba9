package signing

const (
	// ClobDomainName is the EIP-712 domain of the auth challenge.
	ClobDomainName = "ClobAuthDomain"

	// ClobVersion is the auth domain version.
	ClobVersion = "1"

	// MsgToSign is the fixed attestation string of the auth challenge.
	MsgToSign = "This message attests that I control the given wallet"

	// ExchangeDomainName is the EIP-712 domain of the order schema.
	ExchangeDomainName = "Probable CTF Exchange"

	// ProtocolVersion is the exchange domain version.
	ProtocolVersion = "1"
)
