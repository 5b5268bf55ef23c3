package extraction

import "strings"

const samplePayload = `[--- Decoded QR Payload(s) ---]
{
    "data": "{\"SellerGstin\":\"29AABCU9603R1ZM\",\"BuyerGstin\":\"29AAACB1234C1Z5\",\"DocNo\":\"INV-001\",\"DocTyp\":\"INV\",\"DocDt\":\"01/04/2024\",\"TotInvVal\":1180,\"ItemCnt\":2,\"MainHsnCode\":\"94035000\",\"Irn\":\"a1b2c3\",\"IrnDt\":\"2024-04-01 10:00:00\"}",
    "iss": "NIC"
}
[-----------------------------]
`

const sampleBody = "[--- Text Content ---]\n" +
	"TAX INVOICE\n" +
	"\n" +
	"Acme Furniture Pvt Ltd\n" +
	"Ack.No. : 112410012345678\n" +
	"E-Way Bill No. : 321009876543\n" +
	"Place of Supply : Karnataka\n" +
	"Vehicle No. : KA01AB1234\n" +
	"Transport : Road\n" +
	"S.No. Description HSN/SAC Quantity Rate Amount(` )\n" +
	"1.\n" +
	"Model No: ABC-100 (73239920)\n" +
	"94035000\n" +
	"2.00 Pcs.\n" +
	"150.00\n" +
	"300.00\n" +
	"2.\n" +
	"Oak Shelf XL\n" +
	"94035000\n" +
	"1 SET\n" +
	"700.00\n" +
	"700.00\n" +
	"HSN/SAC Tax Rate Taxable CGST SGST Total\n" +
	"94035000 18% 1,000.00 90.00 90.00 180.00\n" +
	"[--------------------]\n"

const sampleFlag = "VALIDATION: VALID ✅ (DocNo: INV-001, TotInvVal: 1180)\n"

func sampleBlock() string {
	return "########################################\n# Page 5\n########################################\n" +
		samplePayload + sampleBody + "\n" + sampleFlag
}

// withDocNo rewrites the sample so it carries another document number.
func withDocNo(block, docNo string) string {
	return strings.ReplaceAll(block, "INV-001", docNo)
}
