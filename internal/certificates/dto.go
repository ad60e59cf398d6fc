package certificates

// CertificateResponse is the public projection of a record. It deliberately
// omits the row key and the owning user.
type CertificateResponse struct {
	CertID     string `json:"id"`
	HolderName string `json:"name"`
	IssueDate  string `json:"issueDate"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	FileURL    string `json:"fileUrl,omitempty"`
}

func toResponse(cert Certificate) CertificateResponse {
	resp := CertificateResponse{
		CertID:     cert.CertID,
		HolderName: cert.HolderName,
		IssueDate:  cert.IssueDate.Format(dateLayout),
	}
	if cert.ExpiryDate != nil {
		resp.ExpiryDate = cert.ExpiryDate.Format(dateLayout)
	}
	return resp
}

func toOwnerResponse(cert Certificate) CertificateResponse {
	resp := toResponse(cert)
	resp.FileURL = cert.FileURL
	return resp
}
